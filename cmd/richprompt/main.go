// Package main is the entry point for the richprompt CLI.
package main

import (
	"fmt"

	"github.com/mkravets/richprompt/internal/cli"
	"github.com/mkravets/richprompt/internal/utils"
)

func main() {
	applicationLogger, loggerError := utils.NewApplicationLogger()
	if loggerError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError))
	}
	defer func() { _ = applicationLogger.Sync() }()

	if executionError := cli.Execute(); executionError != nil {
		applicationLogger.Fatal(utils.ApplicationExecutionFailedMessage + ": " + executionError.Error())
	}
}
