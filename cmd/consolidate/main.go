package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/Joaotp75/dashboard-assessores/internal/aggregator"
	"github.com/Joaotp75/dashboard-assessores/internal/consolidator"
	"github.com/Joaotp75/dashboard-assessores/internal/exporter"
	"github.com/Joaotp75/dashboard-assessores/internal/logger"
	"github.com/Joaotp75/dashboard-assessores/internal/model"
)

var (
	advisor  = flag.String("advisor", model.AllOption, "顾问代码筛选")
	month    = flag.String("month", model.AllOption, "月份（工作表名）筛选")
	asJSON   = flag.Bool("json", false, "以 JSON 输出仪表盘")
	output   = flag.String("xlsx", "", "同时导出 Excel 到该路径")
	logLevel = flag.String("logLevel", "warn", "日志级别")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: consolidate [-advisor X] [-month Y] [-json] [-xlsx out.xlsx] files...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logger.New(logger.Options{Level: *logLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sel := model.FilterSelection{AdvisorCode: *advisor, Month: *month}
	if err := run(ctx, log, flag.Args(), sel, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "consolidate: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logrus.Logger, paths []string, sel model.FilterSelection, out io.Writer) error {
	if len(paths) == 0 {
		return errors.New("no input files")
	}

	payloads := make([]consolidator.Payload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		payloads = append(payloads, consolidator.Payload{Filename: p, Data: data})
	}

	sources, err := consolidator.OpenAll(ctx, payloads, 0)
	if err != nil {
		return err
	}
	defer consolidator.CloseAll(sources)

	result, err := consolidator.New(log).Consolidate(sources)
	if err != nil {
		return err
	}
	if result.NoRows() {
		return fmt.Errorf("no rows found in %d file(s)", result.Report.TotalFiles)
	}

	d, err := aggregator.Build(result.Table, sel)
	if err != nil {
		return err
	}

	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("create %s: %w", *output, err)
		}
		if err := exporter.NewExporter(log).WriteTo(f, d); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", *output, err)
		}
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	return printDashboard(out, d)
}

func printDashboard(out io.Writer, d *aggregator.Dashboard) error {
	fmt.Fprintln(out, d.Title)
	fmt.Fprintln(out)
	if d.Empty {
		fmt.Fprintln(out, d.Notice)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Movimentação Total\tComissão Total\tROA Médio")
	fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Summary.TotalMovementText, d.Summary.TotalCommissionText, d.Summary.AverageROAText)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Mês\tMovimentação\tComissão\tROA")
	for _, m := range d.Monthly {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Month, m.MovementText, m.CommissionText, m.ROAText)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Assessor\tMês\tData\tProduto\tValor Movimentação\tROA\tComissão Bruta")
	for _, r := range d.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.AdvisorCode, r.Month, r.DateText, r.ProductText,
			r.MovementValueText, r.ROAText, r.GrossCommissionText)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTotal de operações: %d\n", d.Count)
	return nil
}
