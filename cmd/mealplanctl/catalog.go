package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	// ----- ingredients -----
	ingredientsCmd := &cobra.Command{Use: "ingredients", Short: "Ingredient catalog operations"}

	var ingName, ingNotes string
	ingCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Add an ingredient",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"name": ingName}
			if ingNotes != "" {
				payload["notes"] = ingNotes
			}
			data, err := doPostJSON("/v0/ingredients", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	ingCreateCmd.Flags().StringVarP(&ingName, "name", "n", "", "Ingredient name (required)")
	ingCreateCmd.Flags().StringVar(&ingNotes, "notes", "", "Notes")
	_ = ingCreateCmd.MarkFlagRequired("name")
	ingredientsCmd.AddCommand(ingCreateCmd)

	ingredientsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List ingredients",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/v0/ingredients")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	})

	ingredientsCmd.AddCommand(&cobra.Command{
		Use:   "get INGREDIENT_ID",
		Short: "Get an ingredient by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/v0/ingredients/" + args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	})

	ingredientsCmd.AddCommand(&cobra.Command{
		Use:   "delete INGREDIENT_ID",
		Short: "Delete an ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doDelete("/v0/ingredients/" + args[0])
		},
	})

	rootCmd.AddCommand(ingredientsCmd)

	// ----- meals -----
	mealsCmd := &cobra.Command{Use: "meals", Short: "Meal catalog operations"}

	var mealName, mealDesc string
	var mealIngredients []string
	mealCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Add a meal",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"name": mealName}
			if mealDesc != "" {
				payload["description"] = mealDesc
			}
			if len(mealIngredients) > 0 {
				payload["ingredientIds"] = mealIngredients
			}
			data, err := doPostJSON("/v0/meals", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	mealCreateCmd.Flags().StringVarP(&mealName, "name", "n", "", "Meal name (required)")
	mealCreateCmd.Flags().StringVarP(&mealDesc, "description", "d", "", "Description")
	mealCreateCmd.Flags().StringSliceVarP(&mealIngredients, "ingredient", "i", nil, "Ingredient ID (repeatable)")
	_ = mealCreateCmd.MarkFlagRequired("name")
	mealsCmd.AddCommand(mealCreateCmd)

	mealsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List meals",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/v0/meals")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	})

	mealsCmd.AddCommand(&cobra.Command{
		Use:   "get MEAL_ID",
		Short: "Get a meal by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/v0/meals/" + args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	})

	mealsCmd.AddCommand(&cobra.Command{
		Use:   "delete MEAL_ID",
		Short: "Delete a meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doDelete("/v0/meals/" + args[0])
		},
	})

	rootCmd.AddCommand(mealsCmd)
}
