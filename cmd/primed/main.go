package main

import (
	"net/http"
	"os"

	flags "github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"github.com/ib-77/sieve3/pkg/sieve/serve"
)

type Config struct {
	Host    string `long:"host" default:"localhost:8080" description:"serve bind host"`
	Verbose bool   `short:"v" long:"verbose" description:"log stage lifecycle at debug level"`
}

var globalConfig = Config{}

func main() {
	if _, err := flags.Parse(&globalConfig); err != nil {
		os.Exit(2)
	}
	if globalConfig.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	log.Infof("sieve service listening on http://%s", globalConfig.Host)
	log.Fatal(http.ListenAndServe(globalConfig.Host, serve.NewHandler(log.StandardLogger())))
}
