package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/faultline"
)

var classifyContext string

var classifyCmd = &cobra.Command{
	Use:   "classify <message>",
	Short: "Classify a failure message and print the categorized record",
	Args:  cobra.MinimumNArgs(1),
	Run:   runClassify,
}

func init() {
	classifyCmd.Flags().StringVar(&classifyContext, "context", "", "operation label attached to the classification")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) {
	h, _ := setup()

	msg := strings.Join(args, " ")
	e := h.Classify(errors.New(msg), classifyContext)

	out := map[string]any{
		"category":     e.Category,
		"severity":     e.Severity.String(),
		"action":       e.RecoveryAction,
		"code":         e.Code,
		"user_message": faultline.CreateUserMessage(e),
		"details":      e.TechnicalDetails,
		"timestamp":    e.Timestamp.Format(time.RFC3339),
	}
	if e.Context != "" {
		out["context"] = e.Context
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, "encode output:", err)
		os.Exit(1)
	}
}
