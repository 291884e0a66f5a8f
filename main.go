package main

import (
	"fmt"
	"os"

	"github.com/conneroisu/accname/cmd"
	accerrors "github.com/conneroisu/accname/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", accerrors.FormatErrorWithSuggestions(err))
		os.Exit(accerrors.ExitCode(err))
	}
}
