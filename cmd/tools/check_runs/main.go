package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/david/shipment-tracker/internal/db"
)

func main() {
	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	runs, err := db.NewRunStore(pool).ListRecentRuns(ctx, 20)
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Sender", "Category", "Source", "Doc Type", "Entities", "Required", "Avg Conf", "Duration", "Created At"})

	for _, run := range runs {
		required := fmt.Sprintf("%d/%d", run.RequiredFound, run.RequiredFound+run.RequiredMissing)
		t.AppendRow(table.Row{
			run.Sender, run.Category, run.SourceType, run.DocumentType,
			run.TotalExtracted, required,
			fmt.Sprintf("%.1f", run.AvgConfidence),
			fmt.Sprintf("%dms", run.DurationMS),
			run.CreatedAt.Format("15:04:05"),
		})
	}
	t.Render()
}
