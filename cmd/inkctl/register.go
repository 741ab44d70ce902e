package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strings"

	"inkbook/internal/client/api"
	"inkbook/internal/client/wizard"
)

// fieldValues collects repeated -set k=v flags. Values are read as JSON when
// they parse, so -set service_ids=[1,2] and -set accepted_terms=true keep
// their types; anything else is a plain string.
type fieldValues wizard.Data

func (f fieldValues) String() string { return "" }

func (f fieldValues) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("expected field=value, got %q", s)
	}
	var parsed any
	if err := json.Unmarshal([]byte(v), &parsed); err != nil {
		parsed = v
	}
	f[k] = parsed
	return nil
}

var flows = map[string]wizard.Flow{
	"lover":  wizard.LoverFlow,
	"artist": wizard.ArtistFlow,
	"studio": wizard.StudioFlow,
}

func runRegister(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	flowName := fs.String("flow", "lover", "lover, artist or studio")
	stepKey := fs.String("step", "", "step to write, defaults to the current one")
	next := fs.Bool("next", false, "advance after writing")
	back := fs.Bool("back", false, "go back one step")
	submit := fs.Bool("submit", false, "submit the completed wizard")
	reset := fs.Bool("reset", false, "drop the saved draft")
	values := fieldValues{}
	fs.Var(values, "set", "field=value for the step, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	flow, ok := flows[*flowName]
	if !ok {
		return fmt.Errorf("unknown flow %q", *flowName)
	}
	w, err := wizard.Open(ctx, a.store, flow)
	if err != nil {
		return err
	}

	if *reset {
		return w.Clear(ctx)
	}
	if len(values) > 0 {
		key := *stepKey
		if key == "" {
			key = w.Current().Key
		}
		if err := w.MergeStep(ctx, key, wizard.Data(values)); err != nil {
			return err
		}
	}
	switch {
	case *back:
		if err := w.Back(ctx); err != nil {
			return err
		}
	case *next:
		if err := w.Next(ctx); err != nil && !errors.Is(err, wizard.ErrLastStep) {
			return err
		}
	}

	if *submit {
		if err := submitWizard(ctx, a, *flowName, w); err != nil {
			return err
		}
		return w.Clear(ctx)
	}

	printWizard(w)
	return nil
}

func submitWizard(ctx context.Context, a *app, flowName string, w *wizard.Store) error {
	if !w.Complete() {
		return wizard.ErrStepIncomplete
	}

	switch flowName {
	case "lover":
		var r api.LoverRegistration
		if err := w.Decode(&r); err != nil {
			return err
		}
		issued, err := a.api.RegisterLover(ctx, r)
		if err != nil {
			return err
		}
		return a.signedIn(ctx, issued)

	case "artist":
		var r api.ArtistRegistration
		if err := w.Decode(&r); err != nil {
			return err
		}
		issued, err := a.api.RegisterArtist(ctx, r)
		if err != nil {
			return err
		}
		return a.signedIn(ctx, issued)

	default:
		if err := a.requireAuth(); err != nil {
			return err
		}
		var s api.StudioSetup
		if err := w.Decode(&s); err != nil {
			return err
		}
		studio, inviteErrs, err := a.api.SetupStudio(ctx, s)
		if err != nil {
			return err
		}
		fmt.Printf("studio %d %q created\n", studio.ID, studio.Name)
		for _, e := range inviteErrs {
			fmt.Printf("  invite failed: %v\n", e)
		}
		return nil
	}
}

func printWizard(w *wizard.Store) {
	flow := w.Flow()
	current := w.CurrentIndex()
	for i, step := range flow.Steps {
		mark := " "
		if i == current {
			mark = ">"
		}
		status := "ok"
		if missing := w.MissingFields(step.Key); len(missing) > 0 {
			status = "missing " + strings.Join(missing, ", ")
		}
		fmt.Printf("%s %2d %-16s %s\n", mark, i+1, step.Key, status)
	}
	if w.Complete() {
		fmt.Println("ready to submit")
	}
}
