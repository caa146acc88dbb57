package main

import (
	"strconv"
	"time"

	"github.com/openclaw/availability/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	flagReminderMessage string
	flagReminderAt      string
	flagReminderIn      time.Duration
	flagReminderEvery   string
	flagReminderAll     bool
	flagSnoozeFor       time.Duration
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Manage reminders in the local store",
}

var remindersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a reminder",
	RunE:  runRemindersAdd,
}

var remindersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open reminders",
	RunE:  runRemindersList,
}

var remindersDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List reminders due right now",
	RunE:  runRemindersDue,
}

var remindersCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Complete a reminder, recurring ones reschedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemindersComplete,
}

var remindersSnoozeCmd = &cobra.Command{
	Use:   "snooze <id>",
	Short: "Push a reminder back for a while",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemindersSnooze,
}

var remindersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a reminder",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemindersDelete,
}

var remindersHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed reminder firings",
	RunE:  runRemindersHistory,
}

func init() {
	remindersAddCmd.Flags().StringVar(&flagReminderMessage, "message", "", "what to be reminded about")
	remindersAddCmd.Flags().StringVar(&flagReminderAt, "at", "", "first firing moment (RFC3339), defaults to now")
	remindersAddCmd.Flags().DurationVar(&flagReminderIn, "in", 0, "first firing delay from now, alternative to --at")
	remindersAddCmd.Flags().StringVar(&flagReminderEvery, "every", "", "recurrence: daily, weekly, monthly or a cron expression")
	remindersAddCmd.MarkFlagRequired("message")

	remindersListCmd.Flags().BoolVar(&flagReminderAll, "all", false, "include completed reminders")

	remindersSnoozeCmd.Flags().DurationVar(&flagSnoozeFor, "for", 15*time.Minute, "how long to snooze")

	remindersCmd.AddCommand(
		remindersAddCmd,
		remindersListCmd,
		remindersDueCmd,
		remindersCompleteCmd,
		remindersSnoozeCmd,
		remindersDeleteCmd,
		remindersHistoryCmd,
	)
	rootCmd.AddCommand(remindersCmd)
}

func reminderIDArg(args []string) (int64, error) {
	id, errParse := strconv.ParseInt(args[0], 10, 64)
	if errParse != nil {
		return 0,
			errors.Wrapf(errParse, "reminder id %q", args[0])
	}

	return id, nil
}

func runRemindersAdd(cmd *cobra.Command, _ []string) error {
	scheduled := time.Now()

	switch {
	case len(flagReminderAt) > 0:
		parsed, errParse := time.Parse(time.RFC3339, flagReminderAt)
		if errParse != nil {
			return errors.Wrapf(errParse, "at %q", flagReminderAt)
		}

		scheduled = parsed

	case flagReminderIn > 0:
		scheduled = scheduled.Add(flagReminderIn)
	}

	s, errStore := openStore()
	if errStore != nil {
		return errStore
	}
	defer s.Close()

	reminder, errCreate := s.CreateReminder(cmd.Context(),
		&store.ParamsCreateReminder{
			Message:    flagReminderMessage,
			Scheduled:  scheduled,
			Recurrence: flagReminderEvery,
		},
	)
	if errCreate != nil {
		return errCreate
	}

	return printJSON(reminder)
}

func runRemindersList(cmd *cobra.Command, _ []string) error {
	s, errStore := openStore()
	if errStore != nil {
		return errStore
	}
	defer s.Close()

	reminders, errFind := s.FindReminders(cmd.Context(),
		&store.FindReminders{
			IncludeCompleted: flagReminderAll,
		},
	)
	if errFind != nil {
		return errFind
	}

	if reminders == nil {
		reminders = []*store.Reminder{}
	}

	return printJSON(map[string]any{
		"reminders": reminders,
	})
}

func runRemindersDue(cmd *cobra.Command, _ []string) error {
	s, errStore := openStore()
	if errStore != nil {
		return errStore
	}
	defer s.Close()

	due, errDue := s.DueReminders(cmd.Context(), time.Now())
	if errDue != nil {
		return errDue
	}

	if due == nil {
		due = []*store.Reminder{}
	}

	return printJSON(map[string]any{
		"due": due,
	})
}

func runRemindersComplete(cmd *cobra.Command, args []string) error {
	id, errID := reminderIDArg(args)
	if errID != nil {
		return errID
	}

	s, errStore := openStore()
	if errStore != nil {
		return errStore
	}
	defer s.Close()

	reminder, errComplete := s.CompleteReminder(cmd.Context(), id, time.Now())
	if errComplete != nil {
		return errComplete
	}

	return printJSON(reminder)
}

func runRemindersSnooze(cmd *cobra.Command, args []string) error {
	id, errID := reminderIDArg(args)
	if errID != nil {
		return errID
	}

	s, errStore := openStore()
	if errStore != nil {
		return errStore
	}
	defer s.Close()

	reminder, errSnooze := s.SnoozeReminder(cmd.Context(), id, flagSnoozeFor, time.Now())
	if errSnooze != nil {
		return errSnooze
	}

	return printJSON(reminder)
}

func runRemindersDelete(cmd *cobra.Command, args []string) error {
	id, errID := reminderIDArg(args)
	if errID != nil {
		return errID
	}

	s, errStore := openStore()
	if errStore != nil {
		return errStore
	}
	defer s.Close()

	if errDelete := s.DeleteReminder(cmd.Context(), id); errDelete != nil {
		return errDelete
	}

	return printJSON(map[string]any{
		"deleted": id,
	})
}

func runRemindersHistory(cmd *cobra.Command, _ []string) error {
	s, errStore := openStore()
	if errStore != nil {
		return errStore
	}
	defer s.Close()

	history, errHistory := s.FindReminderHistory(cmd.Context(), nil)
	if errHistory != nil {
		return errHistory
	}

	if history == nil {
		history = []*store.ReminderHistory{}
	}

	return printJSON(map[string]any{
		"history": history,
	})
}
