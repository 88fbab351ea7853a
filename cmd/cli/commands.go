package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(reservationsCmd)

	sessionOpenCmd.Flags().String("user", "", "The id of the user booking")
	sessionOpenCmd.Flags().String("date", "", "The booking date (YYYY-MM-DD)")
	sessionOpenCmd.Flags().StringSlice("court", nil, "The court ids to show (repeatable)")
	_ = sessionOpenCmd.MarkFlagRequired("user")
	_ = sessionOpenCmd.MarkFlagRequired("date")
	_ = sessionOpenCmd.MarkFlagRequired("court")

	sessionCourtsCmd.Flags().StringSlice("court", nil, "The court ids to show (repeatable)")
	_ = sessionCourtsCmd.MarkFlagRequired("court")

	sessionOptionsCmd.Flags().String("sport", "", "The sport to book")
	sessionOptionsCmd.Flags().Bool("recurring", false, "Book the slots weekly")
	sessionOptionsCmd.Flags().String("period", "", "Recurrence period: ONE_MONTH, THREE_MONTHS or SIX_MONTHS")
	sessionOptionsCmd.Flags().Bool("public", false, "Open the game to other players")
	sessionOptionsCmd.Flags().Int("players", 0, "The number of players the open game needs")

	sessionCmd.AddCommand(sessionOpenCmd, sessionGetCmd, sessionCloseCmd, sessionSlotsCmd, sessionToggleCmd,
		sessionDateCmd, sessionCourtsCmd, sessionOptionsCmd, sessionSummaryCmd, sessionCancelCmd, sessionConfirmCmd)

	reservationsListCmd.Flags().String("court", "", "Only list reservations of this court")
	reservationsExportCmd.Flags().StringP("output", "o", "reservations.xlsx", "The file to write the spreadsheet to")
	reservationsCalendarCmd.Flags().StringP("output", "o", "", "The file to write the calendar to (stdout when empty)")

	reservationsCmd.AddCommand(reservationsListCmd, reservationsGetCmd, reservationsExportCmd, reservationsCalendarCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Drive a booking session",
}

var sessionOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a booking session for a date and a set of courts",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		date, _ := cmd.Flags().GetString("date")
		courts, _ := cmd.Flags().GetStringSlice("court")
		return performRequest(http.MethodPost, "/sessions", map[string]any{
			"user_id":   user,
			"date":      date,
			"court_ids": courts,
		})
	},
}

var sessionGetCmd = &cobra.Command{
	Use:   "get <session-id>",
	Short: "Show a booking session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, sessionPath(args[0], ""), nil)
	},
}

var sessionCloseCmd = &cobra.Command{
	Use:   "close <session-id>",
	Short: "Discard a booking session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, sessionPath(args[0], ""), nil)
	},
}

var sessionSlotsCmd = &cobra.Command{
	Use:   "slots <session-id> <court-id>",
	Short: "Show the classified slots of a court",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, sessionPath(args[0], "/courts/"+url.PathEscape(args[1])+"/slots"), nil)
	},
}

var sessionToggleCmd = &cobra.Command{
	Use:   "toggle <session-id> <court-id> <slot-id>",
	Short: "Tap a slot",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, sessionPath(args[0], "/toggle"), map[string]string{
			"court_id": args[1],
			"slot_id":  args[2],
		})
	},
}

var sessionDateCmd = &cobra.Command{
	Use:   "date <session-id> <YYYY-MM-DD>",
	Short: "Change the booking date",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPut, sessionPath(args[0], "/date"), map[string]string{"date": args[1]})
	},
}

var sessionCourtsCmd = &cobra.Command{
	Use:   "courts <session-id>",
	Short: "Change the courts shown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courts, _ := cmd.Flags().GetStringSlice("court")
		return performRequest(http.MethodPut, sessionPath(args[0], "/courts"), map[string]any{"court_ids": courts})
	},
}

var sessionOptionsCmd = &cobra.Command{
	Use:   "options <session-id>",
	Short: "Set sport, recurrence and open-game options",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sport, _ := cmd.Flags().GetString("sport")
		recurring, _ := cmd.Flags().GetBool("recurring")
		period, _ := cmd.Flags().GetString("period")
		public, _ := cmd.Flags().GetBool("public")
		players, _ := cmd.Flags().GetInt("players")
		return performRequest(http.MethodPut, sessionPath(args[0], "/options"), map[string]any{
			"sport":          strings.ToUpper(sport),
			"recurring":      recurring,
			"period":         strings.ToUpper(period),
			"public":         public,
			"needed_players": players,
		})
	},
}

var sessionSummaryCmd = &cobra.Command{
	Use:   "summary <session-id>",
	Short: "Show the price summary of the selection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, sessionPath(args[0], "/summary"), nil)
	},
}

var sessionCancelCmd = &cobra.Command{
	Use:   "cancel <session-id>",
	Short: "Clear the selection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, sessionPath(args[0], "/selection"), nil)
	},
}

var sessionConfirmCmd = &cobra.Command{
	Use:   "confirm <session-id>",
	Short: "Submit the selection as a reservation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, sessionPath(args[0], "/confirm"), nil)
	},
}

var reservationsCmd = &cobra.Command{
	Use:   "reservations",
	Short: "Inspect stored reservations",
}

var reservationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reservations",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/reservations"
		if court, _ := cmd.Flags().GetString("court"); court != "" {
			endpoint += "?court_id=" + url.QueryEscape(court)
		}
		return performRequest(http.MethodGet, endpoint, nil)
	},
}

var reservationsGetCmd = &cobra.Command{
	Use:   "get <reservation-id>",
	Short: "Show a stored reservation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/reservations/"+url.PathEscape(args[0]), nil)
	},
}

var reservationsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download all reservations as a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		return download("/reservations/export.xlsx", output)
	},
}

var reservationsCalendarCmd = &cobra.Command{
	Use:   "calendar <reservation-id>",
	Short: "Download the iCalendar file of a reservation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		return download("/reservations/"+url.PathEscape(args[0])+"/calendar.ics", output)
	},
}

func sessionPath(id, suffix string) string {
	return "/sessions/" + url.PathEscape(id) + suffix
}

func requestURL(endpoint string) string {
	u := host + endpoint
	if dryRun {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		u += sep + "dry_run=true"
	}
	return u
}

func performRequest(method, endpoint string, payload any) error {
	u := requestURL(endpoint)
	fmt.Printf("Making %s request to %s\n", method, u)

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, u, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	var pretty bytes.Buffer
	if json.Indent(&pretty, respBody, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(respBody))
	}

	return nil
}

func download(endpoint, output string) error {
	u := requestURL(endpoint)
	fmt.Fprintf(os.Stderr, "Downloading %s\n", u)

	resp, err := http.Get(u)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server answered %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
	}
	return nil
}
