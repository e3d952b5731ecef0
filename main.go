package main

import (
	"log"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lambda-feedback/hgserve/cmd"
	"github.com/lambda-feedback/hgserve/util"
)

var Version string
var Buildtime string
var Commit string

func main() {
	if err := setupSentry(); err != nil {
		log.Fatalf("sentry init failed: %s", err)
	}

	appVersion := "local"
	if Version != "" {
		appVersion = Version
	}

	appBuildtime, _ := time.Parse(time.RFC3339, Buildtime)

	code := cmd.Execute(cmd.ExecuteParams{
		Version:  appVersion,
		Compiled: appBuildtime,
	})

	flushSentry()

	os.Exit(code)
}

// setupSentry enables crash reports of the command server if
// SENTRY_DSN is set.
func setupSentry() error {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return nil
	}

	environment := os.Getenv("SENTRY_ENVIRONMENT")
	if environment == "" {
		environment = "local"
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Debug:       util.Truthy(os.Getenv("SENTRY_DEBUG")),
		Environment: environment,
		Release:     Commit,
	})
}

func flushSentry() {
	// flush buffered events before the program terminates
	sentry.Flush(2 * time.Second)
}
