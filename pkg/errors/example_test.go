// Package errors provides examples of structured error handling in tsweave.
package errors_test

import (
	"fmt"
	"io"

	"github.com/tsweave/tsweave/pkg/errors"
)

// Example demonstrates basic error creation and detail attachment.
func Example() {
	err := errors.New(errors.ErrorTypeMissingColumns, "frame is missing required columns")

	err = err.WithDetail("missing", []string{"temperature", "pressure"}).
		WithDetail("frame_columns", 4)

	fmt.Println(err.Error())

	// Output:
	// missing_columns: frame is missing required columns
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	originalErr := io.EOF

	err := errors.Wrap(originalErr, errors.ErrorTypeFile, "failed to read CSV source").
		WithDetail("file", "observations.csv").
		WithDetail("row", 42)

	if errors.IsType(err, errors.ErrorTypeFile) {
		fmt.Println("This is a file error")
	}

	fmt.Println(err.Error())

	// Output:
	// This is a file error
	// file: failed to read CSV source: EOF
}

// ExampleIsType demonstrates checking error types through wrapping.
func ExampleIsType() {
	selErr := errors.New(errors.ErrorTypeSelector, "position 7 cannot be resolved")
	valErr := errors.New(errors.ErrorTypeValidation, "group names must be unique")

	wrappedErr := errors.Wrap(selErr, errors.ErrorTypeConfig, "pipeline stage is invalid")

	fmt.Printf("Is selector error: %v\n", errors.IsType(selErr, errors.ErrorTypeSelector))
	fmt.Printf("Is validation error: %v\n", errors.IsType(valErr, errors.ErrorTypeValidation))

	// IsType reports the outermost type only
	fmt.Printf("Wrapped error is config type: %v\n", errors.IsType(wrappedErr, errors.ErrorTypeConfig))
	fmt.Printf("Wrapped error is selector type: %v\n", errors.IsType(wrappedErr, errors.ErrorTypeSelector))

	// Output:
	// Is selector error: true
	// Is validation error: true
	// Wrapped error is config type: true
	// Wrapped error is selector type: false
}

// Example_errorChain shows how to chain multiple error contexts.
func Example_errorChain() {
	err := resolveSelector()
	if err != nil {
		err = errors.Wrap(err, errors.ErrorTypeConfig, "ensemble group \"trend\" is invalid")
		err = errors.Wrap(err, errors.ErrorTypeInternal, "pipeline build failed")

		fmt.Println("Full error chain:", err)
	}

	// Output:
	// Full error chain: internal: pipeline build failed: config: ensemble group "trend" is invalid: selector: column "humidity" not found
}

// resolveSelector simulates a selector resolution failure
func resolveSelector() error {
	return errors.New(errors.ErrorTypeSelector, `column "humidity" not found`).
		WithDetail("selector", "humidity")
}

// Example_errorHandling demonstrates dispatching on error type.
func Example_errorHandling() {
	stages := []string{"scale", "detrend", "bogus"}

	for _, stage := range stages {
		err := buildStage(stage)
		if err != nil {
			switch {
			case errors.IsType(err, errors.ErrorTypeConfig):
				fmt.Printf("Skipping stage %q: %v\n", stage, err)
				continue
			default:
				fmt.Printf("Fatal error in stage %q: %v\n", stage, err)
				return
			}
		}
	}

	// Output:
	// Skipping stage "bogus": config: unknown transformer type
}

// buildStage simulates stage construction that can fail
func buildStage(name string) error {
	if name == "bogus" {
		return errors.New(errors.ErrorTypeConfig, "unknown transformer type").
			WithDetail("type", name)
	}
	return nil
}
