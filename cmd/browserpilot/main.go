// Command browserpilot runs a natural-language browser automation session:
// it launches a Chromium page, hands the user's instruction to a Bedrock
// model, and executes the tool calls the model requests until it produces a
// final answer.
package main

import "os"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
