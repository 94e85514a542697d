package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/report"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/spf13/cobra"
)

func newSeatsCommand(rt *runtime) *cobra.Command {
	var class, position string
	cmd := &cobra.Command{
		Use:   "seats",
		Short: "List available seats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var c domain.SeatClass
			if class != "" {
				parsed, err := domain.ParseSeatClass(class)
				if err != nil {
					return err
				}
				c = parsed
			}
			var p domain.SeatPosition
			if position != "" {
				parsed, err := domain.ParseSeatPosition(position)
				if err != nil {
					return err
				}
				p = parsed
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SEAT\tCLASS\tPOSITION\tPRICE")
			for _, s := range rt.state.Flights.AvailableSeats(cmd.Context(), c, p) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Class, s.Position, s.Price)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "economy, business or first")
	cmd.Flags().StringVar(&position, "position", "", "window, aisle or middle")
	return cmd
}

func newBookingsCommand(rt *runtime) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Search active bookings by id, name or phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printBookings(cmd.OutOrStdout(), report.LimitedAll(rt.state.Bookings.Search(query)))
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "id, name or phone fragment")
	return cmd
}

func newBookCommand(rt *runtime) *cobra.Command {
	var (
		p       domain.Passenger
		meal    int
		seatID  string
		class   string
		payment int
	)
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a seat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p.Meal = domain.MealPreference(meal)
			input := booking.CreateBookingInput{Passenger: p, SeatID: seatID, Method: domain.PaymentMethod(payment)}
			if class != "" {
				c, err := domain.ParseSeatClass(class)
				if err != nil {
					return err
				}
				input.Class = c
			}

			created, err := rt.state.Bookings.CreateBooking(cmd.Context(), input)
			if err != nil {
				return err
			}
			if err := rt.save(cmd.Context()); err != nil {
				return err
			}

			receipt, err := rt.state.Reports.Receipt(*created)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Booking %d confirmed: seat %s (%s, %s)\n", created.ID, created.SeatID, receipt.SeatClass, receipt.Position)
			fmt.Fprintf(out, "Base fare: %s\nLuggage:   %s\nTotal:     %s\n", receipt.Fare.BaseFare, receipt.Fare.LuggageSurcharge, receipt.Fare.Total)
			fmt.Fprintf(out, "Payment:   %s %s\n", receipt.Payment.Method, receipt.Payment.TransactionID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.Name, "name", "", "passenger name")
	f.StringVar(&p.Phone, "phone", "", "phone number")
	f.StringVar(&p.Email, "email", "", "e-mail address")
	f.StringVar(&p.Gender, "gender", "", "gender")
	f.IntVar(&meal, "meal", int(domain.MealVegetarian), "0 vegetarian, 1 non-veg, 2 vegan, 3 none")
	f.BoolVar(&p.Wheelchair, "wheelchair", false, "wheelchair assistance")
	f.IntVar(&p.LuggageKg, "luggage", 0, "checked luggage in kg")
	f.StringVar(&seatID, "seat", "", "seat id, e.g. 6A")
	f.StringVar(&class, "class", "", "expected seat class")
	f.IntVar(&payment, "payment", int(domain.PaymentCreditCard), "0 credit, 1 debit, 2 UPI, 3 cash")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("seat")
	return cmd
}

func newCancelCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel a booking and report the refund",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			result, offer, err := rt.state.CancelAndOffer(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := rt.save(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Booking %d cancelled, seat %s released. Refund: %s\n", id, result.Booking.SeatID, result.Refund)
			if offer.Matched() {
				fmt.Fprintf(out, "Seat %s offered to waitlisted passenger %s\n", offer.SeatID, offer.Entry.Passenger.Name)
			}
			return nil
		},
	}
}

func newModifySeatCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "modify-seat ID SEAT",
		Short: "Move a booking to another seat of the same class",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			updated, err := rt.state.Bookings.ModifySeat(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			if err := rt.save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booking %d moved to seat %s\n", id, updated.SeatID)
			return nil
		},
	}
}

func newModifyMealCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "modify-meal ID MEAL",
		Short: "Change the meal preference (0-3)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			meal, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: meal %q", domain.ErrInvalidInput, args[1])
			}
			updated, err := rt.state.Bookings.ModifyMeal(cmd.Context(), id, domain.MealPreference(meal))
			if err != nil {
				return err
			}
			if err := rt.save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booking %d meal set to %s\n", id, updated.Passenger.Meal)
			return nil
		},
	}
}

func newReportCommand(rt *runtime) *cobra.Command {
	var user, password string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the admin revenue and occupancy report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			capability, err := rt.state.Admin.Authenticate(user, password)
			if err != nil {
				return err
			}
			r, err := rt.state.Reports.Summary(capability)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	return cmd
}

func printBookings(out io.Writer, views []report.BookingView) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPHONE\tSEAT\tSTATUS")
	for _, b := range views {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.Name, b.Phone, b.SeatID, b.Status)
	}
	return w.Flush()
}

func printReport(out io.Writer, r report.Report) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CLASS\tBOOKINGS\tREVENUE")
	for _, c := range r.Classes {
		fmt.Fprintf(w, "%s\t%d\t%s\n", c.Class, c.Count, c.Revenue)
	}
	fmt.Fprintf(w, "Total\t%d\t%s\n", r.Occupancy.Booked, r.TotalRevenue)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nOccupancy: %d/%d (%.1f%%)\n", r.Occupancy.Booked, r.Occupancy.Total, r.Occupancy.Ratio*100)
	fmt.Fprintln(out, "Meals:")
	for _, m := range r.Meals {
		fmt.Fprintf(out, "  %-10s %d\n", m.Meal, m.Count)
	}
	fmt.Fprintf(out, "Cancelled bookings: %d\n", r.CancelledCount)
	return nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: booking id %q", domain.ErrInvalidInput, s)
	}
	return id, nil
}
