package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/pkg/utils"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	notesFlag   string
	horizonFlag int
	outputFlag  string
	columnsFlag string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every part with its replacement status",
	RunE: func(cmd *cobra.Command, args []string) error {
		today, err := commandDate()
		if err != nil {
			return err
		}
		views, err := service.Tracker.AllWithStatus(cmd.Context(), today)
		if err != nil {
			return err
		}
		return printViews(cmd.OutOrStdout(), views)
	},
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Show parts due within the horizon, most urgent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		today, err := commandDate()
		if err != nil {
			return err
		}
		horizon := horizonFlag
		if !cmd.Flags().Changed("days") {
			horizon = service.Config.HorizonDays
		}
		views, err := service.Tracker.Upcoming(cmd.Context(), today, horizon)
		if err != nil {
			return err
		}
		return printViews(cmd.OutOrStdout(), views)
	},
}

var replaceCmd = &cobra.Command{
	Use:   "replace PART_ID",
	Short: "Record that a part was replaced",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePartID(args[0])
		if err != nil {
			return err
		}
		date, err := commandDate()
		if err != nil {
			return err
		}
		event, err := service.Tracker.MarkPartReplaced(cmd.Context(), id, date, notesFlag)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), event)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Replaced on %s, next replacement %s\n",
			utils.FormatDate(event.LastReplacedDate), utils.FormatDate(event.NextReplacementDate))
		return nil
	},
}

var orderCmd = &cobra.Command{
	Use:   "order PART_ID",
	Short: "Record that a replacement was ordered",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePartID(args[0])
		if err != nil {
			return err
		}
		date, err := commandDate()
		if err != nil {
			return err
		}
		event, err := service.Tracker.MarkPartOrdered(cmd.Context(), id, date, notesFlag)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), event)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ordered on %s\n", utils.FormatDate(*event.OrderDate))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history PART_ID",
	Short: "List the replacement history of a part",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePartID(args[0])
		if err != nil {
			return err
		}
		events, err := service.Tracker.History(cmd.Context(), id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), events)
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "REPLACED", "NEXT", "ORDERED", "NOTES")
		for _, e := range events {
			ordered := ""
			if e.OrderDate != nil {
				ordered = utils.FormatDate(*e.OrderDate)
			}
			t.Row(strconv.FormatUint(uint64(e.ID), 10),
				utils.FormatDate(e.LastReplacedDate),
				utils.FormatDate(e.NextReplacementDate),
				ordered,
				strings.TrimSpace(e.ReplacementNotes+" "+e.OrderNotes))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Start a baseline schedule for every untracked part",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := commandDate()
		if err != nil {
			return err
		}
		result, err := service.Tracker.InitializeAllParts(cmd.Context(), date)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized %d, already tracked %d, failed %d\n",
			result.Initialized, result.Skipped, result.Failed)
		return nil
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a reminder sweep now",
	RunE: func(cmd *cobra.Command, args []string) error {
		today, err := commandDate()
		if err != nil {
			return err
		}
		result, err := service.Sweep.RunReminderSweep(cmd.Context(), today)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Run %s: %d sent, %d failed\n", result.RunID, result.NotificationsSent, result.Failures)
		return nil
	},
}

var equipmentCmd = &cobra.Command{
	Use:   "equipment",
	Short: "List equipment and the parts that fit it",
	RunE: func(cmd *cobra.Command, args []string) error {
		equipment, err := service.Tracker.ListEquipment(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), equipment)
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "TYPE", "MODEL", "SERIAL", "PARTS")
		for _, e := range equipment {
			parts, err := service.Tracker.PartsForEquipment(cmd.Context(), e.ID)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(parts))
			for _, p := range parts {
				names = append(names, p.Name)
			}
			t.Row(strconv.FormatUint(uint64(e.ID), 10), string(e.Type), e.Manufacturer+" "+e.Model, e.SerialNumber, strings.Join(names, ", "))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the part status report to an xlsx file",
	RunE: func(cmd *cobra.Command, args []string) error {
		today, err := commandDate()
		if err != nil {
			return err
		}
		var columns []string
		if columnsFlag != "" {
			columns = strings.Split(columnsFlag, ",")
		}
		if outputFlag == "" {
			outputFlag = fmt.Sprintf("cpap-parts-%s.xlsx", utils.FormatDate(today))
		}

		f, err := os.Create(outputFlag)
		if err != nil {
			return err
		}
		rows, err := service.Exporter.Export(cmd.Context(), f, today, columns)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(outputFlag)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d parts to %s\n", rows, outputFlag)
		return nil
	},
}

func init() {
	replaceCmd.Flags().StringVar(&notesFlag, "notes", "", "Notes stored with the event")
	orderCmd.Flags().StringVar(&notesFlag, "notes", "", "Order notes")
	upcomingCmd.Flags().IntVar(&horizonFlag, "days", 30, "Horizon in days")
	exportCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (default cpap-parts-DATE.xlsx)")
	exportCmd.Flags().StringVar(&columnsFlag, "columns", "", "Comma separated columns, e.g. name,status,days_until")
}

func commandDate() (time.Time, error) {
	if dateFlag == "" {
		return service.Today(), nil
	}
	return utils.ParseDate(dateFlag)
}

func parsePartID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid part id %q", s)
	}
	return uint(id), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var statusColors = map[entity.Status]lipgloss.Color{
	entity.StatusOverdue:    lipgloss.Color("196"),
	entity.StatusDueSoon:    lipgloss.Color("214"),
	entity.StatusOrdered:    lipgloss.Color("39"),
	entity.StatusOK:         lipgloss.Color("42"),
	entity.StatusNotTracked: lipgloss.Color("241"),
}

func printViews(w io.Writer, views []entity.PartStatusView) error {
	if jsonOutput {
		return printJSON(w, views)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "PART", "MODEL", "NEXT", "DAYS", "STATUS")
	for _, v := range views {
		next, days := "-", "-"
		if v.IsTracked() {
			next = utils.FormatDate(v.Latest.NextReplacementDate)
			days = strconv.Itoa(*v.DaysUntilReplacement)
		}
		status := lipgloss.NewStyle().Foreground(statusColors[v.Status]).Render(string(v.Status))
		t.Row(strconv.FormatUint(uint64(v.Part.ID), 10), v.Part.Name, v.Part.CompatibleModel, next, days, status)
	}
	fmt.Fprintln(w, t)
	return nil
}
