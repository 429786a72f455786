package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fakturatools/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "fakturatools",
	Short: "Fakturatools - Danish PDF invoices to OIOUBL XML",
	Long: `Fakturatools converts Danish PDF invoices into OIOUBL 2.02 XML
documents ready for NemHandel.

PDFs are converted to text with Google Document AI, invoice fields are
extracted with OpenAI, and the result is rendered as a UBL 2.0 invoice
with Danish payment details (FIK and bank transfer), CVR and GLN
identifiers, and reconciled line totals.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Fakturatools executed")

		fmt.Println("Welcome to Fakturatools!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err, "Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
