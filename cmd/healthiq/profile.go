package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sant0-9/healthiq/internal/profile"
)

var newProfile profile.Profile

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage stored profiles",
}

var profileAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a new profile",
	Long: `Stores a profile and prints its id.

Example:
  healthiq profile add --name Ada --email ada@example.com --age 36 --gender female \
    --sleep 7h --exercise-type cycling`,
	RunE: runProfileAdd,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	RunE:  runProfileList,
}

func init() {
	f := profileAddCmd.Flags()
	f.StringVar(&newProfile.Name, "name", "", "Full name (required)")
	f.StringVar(&newProfile.Email, "email", "", "Email address (required, unique)")
	f.IntVar(&newProfile.Age, "age", 0, "Age in years (required)")
	f.StringVar(&newProfile.Gender, "gender", "", "Gender (required)")
	f.StringVar(&newProfile.Location, "location", "", "Location")
	f.StringVar(&newProfile.Lifestyle.Height, "height", "", "Height")
	f.StringVar(&newProfile.Lifestyle.Weight, "weight", "", "Weight")
	f.StringVar(&newProfile.Lifestyle.Sleep, "sleep", "", "Typical sleep")
	f.StringVar(&newProfile.Lifestyle.ExerciseFrequency, "exercise-frequency", "", "How often you exercise")
	f.StringVar(&newProfile.Lifestyle.ExerciseType, "exercise-type", "", "Preferred exercise")
	f.StringVar(&newProfile.Lifestyle.Allergies, "allergies", "", "Food allergies")
	f.StringVar(&newProfile.Lifestyle.Alcohol, "alcohol", "", "Alcohol intake")
	f.StringVar(&newProfile.Lifestyle.Smoking, "smoking", "", "Smoking habits")
	f.StringVar(&newProfile.Lifestyle.Stress, "stress", "", "Stress level")
	f.StringVar(&newProfile.Lifestyle.MealType, "meal-type", "", "Diet type, e.g. vegetarian")
	f.StringVar(&newProfile.Lifestyle.SugarIntake, "sugar-intake", "", "Sugar intake")
	profileAddCmd.MarkFlagRequired("name")
	profileAddCmd.MarkFlagRequired("email")

	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileListCmd)
}

func runProfileAdd(cmd *cobra.Command, args []string) error {
	e, err := setup("")
	if err != nil {
		return err
	}
	defer e.Close()

	p, err := e.store.Create(context.Background(), newProfile)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), p.ID)
	return nil
}

func runProfileList(cmd *cobra.Command, args []string) error {
	e, err := setup("")
	if err != nil {
		return err
	}
	defer e.Close()

	profiles, err := e.store.List(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tAGE\tLOCATION")
	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Email, p.Age, p.Location)
	}
	return w.Flush()
}
