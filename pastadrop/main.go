package main

import (
	"context"
	"fmt"
	"os"

	"github.com/LumeraProtocol/pastadrop/pastadrop/cmd"
	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/logtrace"
)

func main() {
	defer errors.Recover(func(err error) {
		logtrace.Error(context.Background(), "Panic", logtrace.Fields{
			logtrace.FieldError:      err.Error(),
			logtrace.FieldStackTrace: errors.ErrorStack(err),
		})
		logtrace.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	})

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
