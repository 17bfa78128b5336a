// README: One-shot trip estimate from the command line, using the same configuration as the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"vtc/internal/app"
	"vtc/internal/config"
	"vtc/internal/logging"
	"vtc/internal/modules/estimate"
	"vtc/internal/modules/pricing"
	"vtc/internal/types"
)

func main() {
	var (
		origin      = flag.String("from", "", "origin address or \"lat,lng\" (empty: vehicle base)")
		destination = flag.String("to", "", "destination address or \"lat,lng\"")
		date        = flag.String("date", "", "pickup date YYYY-MM-DD")
		clock       = flag.String("time", "", "pickup time HH:MM")
		passengers  = flag.Int("passengers", 1, "number of passengers (1-4)")
		service     = flag.String("service", string(pricing.ServiceOneWay), "one_way, round_trip, hourly or daily")
		hours       = flag.Int("hours", 0, "hours needed (hourly service)")
		supplements = flag.String("supplements", "", "comma-separated supplement slugs")
		timeout     = flag.Duration("timeout", time.Minute, "overall timeout")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.NewWithWriter(os.Stderr, cfg.Log.Level, "text")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	svc, err := app.New(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}

	req := estimate.TripRequest{
		Origin:      parseLocation(*origin),
		Destination: parseLocation(*destination),
		PickupDate:  *date,
		PickupTime:  *clock,
		Passengers:  *passengers,
		ServiceType: pricing.ServiceType(*service),
		HoursNeeded: *hours,
	}
	for _, s := range strings.Split(*supplements, ",") {
		if s = strings.TrimSpace(s); s != "" {
			req.Supplements = append(req.Supplements, s)
		}
	}

	code := run(ctx, svc.Estimate, svc.Base, req, os.Stdout, os.Stderr)
	svc.Close()
	cancel()
	os.Exit(code)
}

// run drives one estimate view: load the base, run a pass, render the snapshot.
func run(ctx context.Context, est estimate.Estimator, base estimate.BaseLocator, req estimate.TripRequest, stdout, stderr io.Writer) int {
	view := estimate.NewSession(est, base)
	defer view.Close()

	view.Load(ctx)
	view.Update(ctx, req)
	st := view.Snapshot()

	if st.Error != "" {
		fmt.Fprintf(stderr, "Error (%s): %s\n", st.Kind, st.Error)
		return 2
	}
	if st.Result == nil {
		fmt.Fprintln(stderr, "Nothing to estimate: set -date, -time and -passengers")
		return 2
	}

	res := st.Result
	d := res.Display()
	fmt.Fprintf(stdout, "From:     %s\n", st.OriginLabel())
	if st.Base != nil {
		fmt.Fprintf(stdout, "Base:     %s\n", st.Base.String())
	}
	fmt.Fprintf(stdout, "To:       %s\n", d.Destination)
	fmt.Fprintf(stdout, "Pickup:   %s %s\n", res.PickupDate, res.PickupTime)
	fmt.Fprintf(stdout, "Distance: %s\n", d.Distance)
	fmt.Fprintf(stdout, "Duration: %s\n", d.Duration)
	if res.Pricing.TariffUsed != nil {
		fmt.Fprintf(stdout, "Tariff:   %s\n", res.Pricing.TariffUsed.Name)
	}
	fmt.Fprintln(stdout)
	for _, line := range d.Breakdown {
		fmt.Fprintf(stdout, "  %-28s %s\n", line.Concept, line.Amount)
	}
	fmt.Fprintf(stdout, "\nTotal:    %s\n", d.Total)
	return 0
}

// parseLocation treats "lat,lng" as coordinates and anything else as an address.
func parseLocation(s string) types.Location {
	s = strings.TrimSpace(s)
	lat, lng, ok := strings.Cut(s, ",")
	if ok {
		la, errLat := strconv.ParseFloat(strings.TrimSpace(lat), 64)
		ln, errLng := strconv.ParseFloat(strings.TrimSpace(lng), 64)
		if errLat == nil && errLng == nil {
			return types.Location{Coordinates: types.Coordinates{Lat: la, Lng: ln}}
		}
	}
	return types.Location{Address: s}
}
