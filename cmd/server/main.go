package main

import (
	"log"
	"net/http"
	"os"

	"loadlink/internal/config"
	"loadlink/internal/controllers"
	"loadlink/internal/logger"
	"loadlink/internal/middleware"
	"loadlink/internal/notify"
	"loadlink/internal/routes"
	"loadlink/internal/workflow"

	logrus "github.com/sirupsen/logrus"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Notification dispatch: AMQP when a broker is configured,
	// otherwise log-only. Delivery failures never touch workflow state.
	var notifier workflow.Notifier = notify.LogNotifier{}
	if url := os.Getenv("AMQP_URL"); url != "" {
		n, err := notify.NewAMQPNotifier(url, "loadlink.notifications")
		if err != nil {
			logrus.WithError(err).Warn("AMQP broker unreachable, falling back to log notifier")
		} else {
			defer n.Close()
			notifier = n
		}
	}

	// Wire the workflow engines
	controllers.Init(config.DB, notifier)

	// Setup Gin router (recovery and request logging are installed
	// there, ahead of the route registrations)
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}
	log.Println("🚚 Server running at " + addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
