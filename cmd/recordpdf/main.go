// Command recordpdf renders health record summaries to PDF.
//
//	recordpdf render --input summary.md --out ./exports
//	recordpdf demo --backend fpdf --seal
package main

import (
	"fmt"
	"os"

	"github.com/careinsight/recordpdf/export"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "recordpdf: %v [%s]\n", err, export.AsGoError(err).TextCode)
		if export.KindFromError(err) == export.KindValidation {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
