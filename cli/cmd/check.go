package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/skel/gen"
	"github.com/ardnew/skel/lang"
	"github.com/ardnew/skel/log"
	"github.com/ardnew/skel/values"
)

// Check parses every template of a tree and reports parse errors and
// references to values that are not defined.
type Check struct {
	Dir string `arg:"" help:"Template tree root" name:"template-dir" type:"existingdir"`

	Input Input `embed:""`

	Strict bool `help:"Fail when a template references an undefined value"`
}

var (
	styleLocation = lipgloss.NewStyle().Bold(true)
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	styleWarning  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	styleHint     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleSummary  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// finding is one reported problem.
type finding struct {
	template string
	pos      lang.Position
	hasPos   bool
	fatal    bool
	msg      string
	hint     string
}

func (f finding) write(w io.Writer) error {
	loc := f.template
	if f.hasPos {
		loc += ":" + f.pos.String()
	}

	sev := styleWarning.Render("warning")
	if f.fatal {
		sev = styleError.Render("error")
	}

	line := styleLocation.Render(loc+":") + " " + sev + ": " + f.msg
	if f.hint != "" {
		line += " " + styleHint.Render("(did you mean "+f.hint+"?)")
	}

	_, err := fmt.Fprintln(w, line)

	return err
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tree, err := c.Input.load(ctx)
	if err != nil {
		return err
	}

	sources, err := gen.LoadDir(ctx, c.Dir)
	if err != nil {
		return ErrLoadTemplates.
			With(slog.String("dir", c.Dir)).
			Wrap(err)
	}

	findings := checkSources(sources, tree, lang.NewCache(lang.WithLogger(log.Default())))

	var errs, warns int

	w := outputFrom(ctx)
	for _, f := range findings {
		if f.fatal {
			errs++
		} else {
			warns++
		}

		if err := f.write(w); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("checked %d templates: %d errors, %d warnings",
		len(sources), errs, warns)
	if _, err := fmt.Fprintln(w, styleSummary.Render(summary)); err != nil {
		return err
	}

	log.DebugContext(ctx, "check complete",
		slog.String("dir", c.Dir),
		slog.Int("templates", len(sources)),
		slog.Int("errors", errs),
		slog.Int("warnings", warns))

	if errs > 0 || (c.Strict && warns > 0) {
		return ErrCheck.
			With(slog.Int("errors", errs), slog.Int("warnings", warns)).
			Wrap(fmt.Errorf("%d errors, %d warnings", errs, warns))
	}

	return nil
}

// checkSources parses the path and content of each source and reports parse
// errors and references to undefined values, in source order.
func checkSources(sources []gen.Source, tree values.Tree, cache *lang.Cache) []finding {
	candidates := slices.Collect(tree.Paths())

	var out []finding

	for _, src := range sources {
		for _, text := range []string{src.Path, src.Content} {
			out = append(out, checkTemplate(cache.Get(src.Path, text), tree, candidates)...)
		}
	}

	return out
}

func checkTemplate(t *lang.Template, scope lang.Scope, candidates []string) []finding {
	refs, err := t.References()
	if err != nil {
		f := finding{template: t.Name(), fatal: true, msg: err.Error()}

		var le *lang.Error
		if errors.As(err, &le) {
			f.pos, f.hasPos = le.Position()

			prefix := le.Template()
			if f.hasPos {
				prefix += ":" + f.pos.String()
			}

			f.msg = strings.TrimPrefix(f.msg, prefix+": ")
		}

		return []finding{f}
	}

	var (
		out  []finding
		seen = make(map[string]bool)
	)

	for _, ref := range refs {
		segs := ref.Expr.Segments()
		key := strings.Join(segs, ".")

		if seen[key] {
			continue
		}

		seen[key] = true

		if _, ok := scope.Lookup(segs...); ok {
			continue
		}

		out = append(out, finding{
			template: t.Name(),
			pos:      ref.Pos,
			hasPos:   true,
			msg:      lang.RootName + "." + key + " is not defined",
			hint:     suggest(key, candidates),
		})
	}

	return out
}

// suggest returns the defined path that best matches missing, or "".
func suggest(missing string, candidates []string) string {
	matches := fuzzy.Find(missing, candidates)
	if len(matches) == 0 {
		return ""
	}

	return lang.RootName + "." + matches[0].Str
}
