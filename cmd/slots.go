package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meinhoongagan/hospital-app/repository"
	"github.com/meinhoongagan/hospital-app/sampledata"
	"github.com/meinhoongagan/hospital-app/utils"
)

var slotsCmd = &cobra.Command{
	Use:   "slots <doctor-id> <YYYY-MM-DD>",
	Short: "Print a doctor's slots for one date",
	Args:  cobra.ExactArgs(2),
	RunE:  runSlots,
}

func runSlots(cmd *cobra.Command, args []string) error {
	doctors, err := sampledata.Doctors()
	if err != nil {
		return err
	}
	doctor, err := repository.NewDoctorCatalog(doctors).Get(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	day, err := utils.ParseDate(args[1], utils.LoadLocation(cfg.App.TimeZone))
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", args[1], err)
	}

	slots := utils.ResolveSlots(doctor, day)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s, %s (%s)\n", doctor.Name, day.Weekday(), utils.FormatDate(day))
	if len(slots) == 0 {
		fmt.Fprintln(out, "no slots")
		return nil
	}
	fmt.Fprintln(out, strings.Join(slots, " "))
	return nil
}
