package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"loadlink/internal/apperrors"
	"loadlink/internal/billing"
	"loadlink/internal/store"
	"loadlink/internal/workflow"
)

// Engine singletons, wired once at boot. Handlers stay thin: bind,
// build the actor, call the engine, map the result.
var (
	loadWF        *workflow.LoadWorkflow
	tripMachine   *workflow.TripMachine
	requestEngine *workflow.RequestEngine
	podWF         *workflow.PodWorkflow
	postingEngine *workflow.PostingEngine

	requestsStore *store.Requests
	postingsStore *store.Postings
)

// Init wires the workflow engines onto the shared DB handle.
func Init(db *gorm.DB, notifier workflow.Notifier) {
	base := store.New(db)

	loads := store.NewLoads(base)
	trips := store.NewTrips(base)
	trucks := store.NewTrucks(base)
	requestsStore = store.NewRequests(base)
	postingsStore = store.NewPostings(base)
	wallets := store.NewWallets(base)
	settlements := store.NewSettlements(base)

	settler := billing.NewService(billing.NewTariffCalculatorFromEnv(), wallets, settlements, loads)

	loadWF = workflow.NewLoadWorkflow(base, loads)
	tripMachine = workflow.NewTripMachine(base, trips, loads, settler, notifier)
	requestEngine = workflow.NewRequestEngine(base, requestsStore, loads, trucks, trips, notifier)
	podWF = workflow.NewPodWorkflow(base, loads, trips, notifier)
	postingEngine = workflow.NewPostingEngine(base, postingsStore, trucks)
}

// fail maps a domain error onto the standard JSON error body.
func fail(c *gin.Context, err error) {
	if e, ok := apperrors.As(err); ok {
		body := gin.H{"error": e.Message}
		if e.Rule != "" {
			body["rule"] = e.Rule
		}
		c.JSON(e.Status, body)
		return
	}
	logrus.WithError(err).Error("unhandled error in handler")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// paramID parses the :id (or named) URL parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}
