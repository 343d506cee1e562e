package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var statsAddr string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Fetch aggregate error stats from a running serve instance",
	Run:   runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsAddr, "addr", "http://localhost:8080", "address of the serve instance")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) {
	resp, err := http.Get(statsAddr + "/stats")
	if err != nil {
		fmt.Fprintln(os.Stderr, "fetch stats:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var pretty any
	if err := json.NewDecoder(resp.Body).Decode(&pretty); err != nil {
		fmt.Fprintln(os.Stderr, "decode stats:", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(pretty)
}
