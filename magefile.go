//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target when running mage without arguments.
var Default = Build

// Build builds the local gateway binary.
func Build() error {
	mg.Deps(Wire)
	fmt.Println("Building server...")
	return sh.Run("go", "build", "-o", "bin/server", "./cmd/server")
}

// BuildLambda builds the Lambda bootstrap binary for the provided.al2023
// runtime.
func BuildLambda() error {
	mg.Deps(Wire)
	fmt.Println("Building lambda...")
	env := map[string]string{
		"GOOS":        "linux",
		"GOARCH":      "arm64",
		"CGO_ENABLED": "0",
	}
	return sh.RunWith(env, "go", "build", "-tags", "lambda.norpc", "-o", "bin/bootstrap", "./cmd/lambda")
}

// Wire runs wire to generate dependency injection code.
func Wire() error {
	fmt.Println("Running wire...")
	return sh.Run("wire", "./internal/app")
}

// Test runs all tests with race detection.
func Test() error {
	fmt.Println("Running tests...")
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet.
func Lint() error {
	fmt.Println("Running vet...")
	return sh.RunV("go", "vet", "./...")
}

// Run builds and starts the local gateway.
func Run() error {
	mg.Deps(Build)
	return sh.RunV("./bin/server")
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println("Cleaning...")
	return os.RemoveAll("bin")
}
