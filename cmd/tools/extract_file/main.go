package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/david/shipment-tracker/internal/config"
	"github.com/david/shipment-tracker/internal/extract"
	"github.com/david/shipment-tracker/internal/textprep"
)

func main() {
	path := flag.String("file", "", "Path to a .txt, .html or .pdf file to extract from")
	sender := flag.String("sender", "", "Sender email address (drives carrier detection)")
	sourceType := flag.String("source-type", "email", "Source type: email or document")
	flag.Parse()

	if *path == "" {
		log.Fatal("Please provide an input file using -file flag")
	}

	content, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *path, err)
	}

	text := string(content)
	switch strings.ToLower(filepath.Ext(*path)) {
	case ".pdf":
		text, err = textprep.PDFToText(content)
		if err != nil {
			log.Fatalf("Failed to extract PDF text: %v", err)
		}
	case ".html", ".htm":
		text = textprep.HTMLToText(text)
	default:
		if textprep.LooksLikeHTML(text) {
			text = textprep.HTMLToText(text)
		}
	}

	engine := extract.NewEngine(nil, config.Defaults())
	result := engine.Extract(context.Background(), extract.ExtractionInput{
		RawText:        text,
		SenderIdentity: *sender,
		SourceType:     extract.SourceType(*sourceType),
	})

	fmt.Printf("Sender category: %s\n", result.Category)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Type", "Value", "Conf", "Priority", "Required", "Context"})
	for _, entity := range result.Entities {
		t.AppendRow(table.Row{
			entity.EntityType, entity.Value, entity.Confidence,
			entity.Priority, entity.IsRequired, textprep.Truncate(entity.Context, 40),
		})
	}
	t.Render()

	fmt.Printf("Extracted %d entities (required %d found, %d missing; avg confidence %.1f) in %s\n",
		result.Summary.TotalExtracted, result.Summary.RequiredFound,
		len(result.Summary.RequiredMissing), result.Summary.AvgConfidence,
		result.Summary.Duration.Round(0))
}
