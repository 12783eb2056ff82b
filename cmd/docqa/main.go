// Command docqa ingests documents into a vector index and answers
// questions about them.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/docqa-labs/docqa-cli/internal/adapters/driving/cli"
)

func main() {
	// Credentials may live in a local .env file; a missing file is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
