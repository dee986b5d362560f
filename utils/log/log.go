package log

import (
	"os"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/utils/dotenv"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/utils/flag"
	"github.com/sirupsen/logrus"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	InitLogger()
}

func InitLogger() {
	logger = logrus.New()

	// Send log to stderr. Production runs use the JSON formatter so that the
	// journal stays machine-parsable, dev runs keep the plain formatter for
	// readability.
	logger.SetOutput(os.Stderr)
	if os.Getenv("WM_ENV") == dotenv.ProdEnv {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	Log = logger.WithFields(
		logrus.Fields{"service": *flag.ServiceName, "is_development": os.Getenv("WM_ENV") != dotenv.ProdEnv},
	)
}
