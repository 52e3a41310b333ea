package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	plansCmd := &cobra.Command{Use: "plans", Short: "Weekly plan operations"}

	// create
	var startDate, weekStart string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a weekly plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON("/v0/plans", map[string]interface{}{
				"startingDate": startDate,
				"weekStartDay": weekStart,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	createCmd.Flags().StringVarP(&startDate, "start", "s", "", "Starting date YYYY-MM-DD (required)")
	createCmd.Flags().StringVarP(&weekStart, "week-start", "w", "MONDAY", "Week start day (SUNDAY, MONDAY, SATURDAY)")
	_ = createCmd.MarkFlagRequired("start")
	plansCmd.AddCommand(createCmd)

	// list
	var from, to string
	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List weekly plans, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := fmt.Sprintf("/v0/plans?limit=%d&offset=%d", limit, offset)
			if from != "" {
				q += "&from=" + from
			}
			if to != "" {
				q += "&to=" + to
			}
			data, err := doGet(q)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	listCmd.Flags().StringVar(&from, "from", "", "Earliest starting date YYYY-MM-DD")
	listCmd.Flags().StringVar(&to, "to", "", "Latest starting date YYYY-MM-DD")
	listCmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	plansCmd.AddCommand(listCmd)

	// get / delete
	plansCmd.AddCommand(&cobra.Command{
		Use:   "get PLAN_ID",
		Short: "Get a weekly plan by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/v0/plans/" + args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	})

	plansCmd.AddCommand(&cobra.Command{
		Use:   "delete PLAN_ID",
		Short: "Delete a weekly plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doDelete("/v0/plans/" + args[0])
		},
	})

	// day
	plansCmd.AddCommand(&cobra.Command{
		Use:   "day PLAN_ID DATE",
		Short: "Get one day of a plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("/v0/plans/%s/days/%s", args[0], args[1]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	})

	// assign
	var mealID string
	var makesLunch bool
	assignCmd := &cobra.Command{
		Use:   "assign PLAN_ID DATE SLOT",
		Short: "Assign a meal to a day's slot (lunch or dinner)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPutJSON(fmt.Sprintf("/v0/plans/%s/days/%s/meals/%s", args[0], args[1], args[2]), map[string]interface{}{
				"mealId":     mealID,
				"makesLunch": makesLunch,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	assignCmd.Flags().StringVarP(&mealID, "meal", "m", "", "Meal ID (required)")
	assignCmd.Flags().BoolVar(&makesLunch, "makes-lunch", false, "Dinner produces next day's leftover lunch")
	_ = assignCmd.MarkFlagRequired("meal")
	plansCmd.AddCommand(assignCmd)

	// remove
	plansCmd.AddCommand(&cobra.Command{
		Use:   "remove PLAN_ID DATE SLOT",
		Short: "Remove a meal from a day's slot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := checkStatus(newClient().R().Delete(fmt.Sprintf("/v0/plans/%s/days/%s/meals/%s", args[0], args[1], args[2])))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	})

	// leftovers
	plansCmd.AddCommand(&cobra.Command{
		Use:   "leftovers PLAN_ID",
		Short: "Derive leftover lunches across the week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON(fmt.Sprintf("/v0/plans/%s/leftovers", args[0]), nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	})

	rootCmd.AddCommand(plansCmd)
}
