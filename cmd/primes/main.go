package main

import (
	"context"
	"os"

	flags "github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"github.com/ib-77/sieve3/pkg/sieve"
)

type Config struct {
	First   int  `long:"first" default:"2" description:"first prime, announced without filtering"`
	Max     int  `long:"max" default:"35" description:"largest candidate to check"`
	Buffer  int  `long:"buffer" default:"8" description:"stream buffer capacity"`
	Verbose bool `short:"v" long:"verbose" description:"log stage lifecycle at debug level"`
}

var globalConfig = Config{}

func main() {
	if _, err := flags.Parse(&globalConfig); err != nil {
		os.Exit(2)
	}
	if globalConfig.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	ctx := sieve.WithBufferOptions(context.Background(), globalConfig.Buffer)
	if _, err := sieve.Run(ctx, sieve.Config{
		First: globalConfig.First,
		Max:   globalConfig.Max,
	}); err != nil {
		// Run already logged the diagnostic with the value in flight.
		os.Exit(1)
	}
}
