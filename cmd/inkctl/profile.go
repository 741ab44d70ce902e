package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"inkbook/internal/client/api"
	"inkbook/internal/client/draft"
)

type stdoutNotifier struct{}

func (stdoutNotifier) Toast(message string) { fmt.Println(message) }

// runProfile edits the signed-in user's profile. Without -save, leaving with
// edits asks before discarding them.
func runProfile(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	save := fs.Bool("save", false, "save the edits")
	values := fieldValues{}
	fs.Var(values, "set", "field=value, repeatable (display_name, username, bio, city, avatar_url)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}
	edit, err := profileEdits(values)
	if err != nil {
		return err
	}

	var h *draft.Holder[api.User]
	h, err = draft.New(draft.Config[api.User]{
		Fetch: func(ctx context.Context) (api.User, error) {
			me, err := a.api.GetMe(ctx)
			if err != nil {
				return api.User{}, err
			}
			return *me, nil
		},
		Save: func(ctx context.Context, d api.User) (*api.User, error) {
			return a.api.UpdateMe(ctx, userChanges(h.Initial(), d))
		},
		Validate: func(u api.User) map[string]string {
			if strings.TrimSpace(u.DisplayName) == "" {
				return map[string]string{"display_name": "required"}
			}
			return nil
		},
		Notify: stdoutNotifier{},
	})
	if err != nil {
		return err
	}
	if err := h.Load(ctx); err != nil {
		return err
	}

	if len(values) > 0 {
		h.Edit(edit)
	}

	if *save {
		res, err := h.Save(ctx)
		if err != nil {
			return err
		}
		if res == draft.SaveNoop {
			fmt.Println("nothing to save")
			return nil
		}
		printUser(h.Draft())
		return nil
	}

	printUser(h.Draft())
	left, err := h.Gate(draft.PrompterFunc(confirmDiscard)).RequestBack(ctx)
	if err != nil {
		return err
	}
	if !left {
		fmt.Println("edits kept, rerun with -save")
	}
	return nil
}

var profileFields = map[string]func(*api.User, string){
	"display_name": func(u *api.User, v string) { u.DisplayName = v },
	"username":     func(u *api.User, v string) { u.Username = v },
	"bio":          func(u *api.User, v string) { u.Bio = v },
	"city":         func(u *api.User, v string) { u.City = v },
	"avatar_url":   func(u *api.User, v string) { u.AvatarURL = v },
}

// profileEdits checks every -set pair before any of them touches the draft.
// Profile fields are strings, so a value that decoded as JSON null, a number
// or a bool is refused rather than stringified.
func profileEdits(values fieldValues) (func(*api.User), error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	setters := make([]func(*api.User), 0, len(keys))
	for _, k := range keys {
		set, ok := profileFields[k]
		if !ok {
			return nil, fmt.Errorf("unknown profile field %q", k)
		}
		v, ok := values[k].(string)
		if !ok {
			raw, _ := json.Marshal(values[k])
			return nil, fmt.Errorf("%s must be text, got %s (quote it: -set '%s=\"%s\"')", k, raw, k, strings.Trim(string(raw), `"`))
		}
		setters = append(setters, func(u *api.User) { set(u, v) })
	}
	return func(u *api.User) {
		for _, set := range setters {
			set(u)
		}
	}, nil
}

var (
	promptTitle    = lipgloss.NewStyle().Bold(true)
	promptSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	promptHelp     = lipgloss.NewStyle().Faint(true)
)

// discardPrompt is the leave-with-edits modal. Only an explicit pick of
// "Discard changes" discards; esc and ctrl+c keep editing.
type discardPrompt struct {
	cursor int
	choice draft.Choice
}

var discardOptions = []struct {
	label  string
	choice draft.Choice
}{
	{"Continue editing", draft.ContinueEditing},
	{"Discard changes", draft.DiscardChanges},
}

func (p discardPrompt) Init() tea.Cmd { return nil }

func (p discardPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch km.String() {
	case "up", "k", "left", "shift+tab":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j", "right", "tab":
		if p.cursor < len(discardOptions)-1 {
			p.cursor++
		}
	case "enter", " ":
		p.choice = discardOptions[p.cursor].choice
		return p, tea.Quit
	case "esc", "ctrl+c", "q":
		p.choice = draft.ContinueEditing
		return p, tea.Quit
	}
	return p, nil
}

func (p discardPrompt) View() string {
	var b strings.Builder
	b.WriteString(promptTitle.Render("You have unsaved changes."))
	b.WriteString("\n\n")
	for i, opt := range discardOptions {
		if i == p.cursor {
			b.WriteString(promptSelected.Render("> " + opt.label))
		} else {
			b.WriteString("  " + opt.label)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + promptHelp.Render("up/down to move, enter to choose, esc to keep editing") + "\n")
	return b.String()
}

// confirmDiscard backs draft.Prompter with the discardPrompt program.
func confirmDiscard(ctx context.Context) (draft.Choice, error) {
	final, err := tea.NewProgram(discardPrompt{}, tea.WithContext(ctx)).Run()
	if err != nil {
		return draft.ContinueEditing, err
	}
	p, ok := final.(discardPrompt)
	if !ok {
		return draft.ContinueEditing, nil
	}
	return p.choice, nil
}

// userChanges sends only the fields that differ from the loaded profile.
func userChanges(initial, d api.User) api.UserUpdate {
	var u api.UserUpdate
	diff := func(before, after string) *string {
		if before == after {
			return nil
		}
		return &after
	}
	u.DisplayName = diff(initial.DisplayName, d.DisplayName)
	u.Username = diff(initial.Username, d.Username)
	u.Bio = diff(initial.Bio, d.Bio)
	u.City = diff(initial.City, d.City)
	u.AvatarURL = diff(initial.AvatarURL, d.AvatarURL)
	return u
}

func printUser(u api.User) {
	fmt.Printf("username:     %s\n", u.Username)
	fmt.Printf("display_name: %s\n", u.DisplayName)
	fmt.Printf("city:         %s\n", u.City)
	fmt.Printf("bio:          %s\n", u.Bio)
	fmt.Printf("avatar_url:   %s\n", u.AvatarURL)
}
