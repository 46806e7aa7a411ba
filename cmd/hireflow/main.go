// Package main provides the entry point for the HireFlow HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hireflow",
	Short: "HireFlow candidate matching API server",
	Long:  "HireFlow scores candidate CVs against job postings with an LLM and manages the recruiter and client feedback flow via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
