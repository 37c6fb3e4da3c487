package main

import (
	"log"
	"os"

	"github.com/Emmanuel10701/maryimmaculate/apps/api/echo"
	"github.com/Emmanuel10701/maryimmaculate/core"
	"github.com/Emmanuel10701/maryimmaculate/core/document"
	"github.com/Emmanuel10701/maryimmaculate/services/logger"
	"github.com/Emmanuel10701/maryimmaculate/services/metrics"
	"github.com/Emmanuel10701/maryimmaculate/storage/database/inmem"
)

func main() {
	std := log.New(os.Stdout, core.Conf.GetString("appName")+" ", log.LstdFlags|log.Lshortfile)

	// set up services
	appLogger := logsvc.NewRollbarLogger(std)
	appLogger.Enable(!core.Conf.GetBool("debug"))
	metrics := metricsvc.New()

	// set up DB & repos
	db, err := inmemdb.Open()
	errAndDie(std, err)
	docSvc := document.NewService(inmemdb.NewDocumentRepository(db))

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:    core.Conf.GetString("serverAddr"),
			DocSvc:  docSvc,
			Logger:  appLogger,
			Metrics: metrics,
		},
	)
	app.Start()
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
