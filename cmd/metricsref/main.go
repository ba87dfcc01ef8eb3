// Command metricsref compiles the glossary and guide corpus, reports content
// defects and exports the compiled records as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/bobmcallan/metricsref/internal/app"
	"github.com/bobmcallan/metricsref/internal/common"
	"github.com/bobmcallan/metricsref/internal/models"
	"github.com/bobmcallan/metricsref/internal/services/corpus"
)

// Globals are flags shared by every command.
type Globals struct {
	Config string `name:"config" short:"c" help:"Config file path" type:"path" env:"METRICSREF_CONFIG"`
	Quiet  bool   `name:"quiet" short:"q" help:"Do not print the banner"`
}

// runEnv carries process state that commands write to.
type runEnv struct {
	out    io.Writer
	logger *common.Logger
}

// CLI defines the command-line interface for metricsref.
type CLI struct {
	Globals

	Validate ValidateCmd `cmd:"" help:"Compile the corpus and report content defects"`
	Export   ExportCmd   `cmd:"" help:"Compile the corpus and write JSON artifacts"`
	Show     ShowGroup   `cmd:"" help:"Print a compiled record with its resolved relations"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// ShowGroup contains record lookups.
type ShowGroup struct {
	Term  ShowTermCmd  `cmd:"" help:"Show a glossary term"`
	Guide ShowGuideCmd `cmd:"" help:"Show a guide"`
}

func (env *runEnv) newApp(g *Globals) (*app.App, error) {
	var opts []app.Option
	if env.logger != nil {
		opts = append(opts, app.WithLogger(env.logger))
	}
	a, err := app.NewApp(g.Config, opts...)
	if err != nil {
		return nil, err
	}
	if !g.Quiet {
		common.PrintBanner(os.Stderr, a.Config, a.Logger)
	}
	return a, nil
}

// ValidateCmd compiles the corpus and prints the defect report.
type ValidateCmd struct {
	JSON bool `name:"json" help:"Print the report as JSON"`
}

func (c *ValidateCmd) Run(g *Globals, env *runEnv) error {
	a, err := env.newApp(g)
	if err != nil {
		return err
	}
	comp, buildErr := a.Compile(context.Background())
	if comp == nil {
		return buildErr
	}

	if c.JSON {
		if err := writeJSON(env.out, comp.Report); err != nil {
			return err
		}
	} else {
		printReport(env.out, comp.Report)
	}
	return buildErr
}

// ExportCmd compiles the corpus and writes it to the output directory.
type ExportCmd struct {
	Output string `name:"output" short:"o" help:"Output directory (overrides config)" type:"path"`
	Force  bool   `name:"force" help:"Export even when strict mode finds defects"`
}

func (c *ExportCmd) Run(g *Globals, env *runEnv) error {
	a, err := env.newApp(g)
	if err != nil {
		return err
	}
	if c.Output != "" {
		a.Config.Build.OutputPath = c.Output
	}

	ctx := context.Background()
	comp, buildErr := a.Compile(ctx)
	if comp == nil || (buildErr != nil && !c.Force) {
		return buildErr
	}
	if err := a.Export(ctx, comp); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "exported %d terms and %d guides to %s\n", comp.Report.Terms, comp.Report.Guides, a.Config.Build.OutputPath)
	return nil
}

// termView is a term with its relations resolved for display.
type termView struct {
	Term         models.GlossaryTerm `json:"term"`
	Collection   string              `json:"collection"`
	Guides       []string            `json:"guides"`
	ReferencedBy []string            `json:"referenced_by"`
	Dangling     []*models.Defect    `json:"dangling,omitempty"`
}

// ShowTermCmd prints one term.
type ShowTermCmd struct {
	Slug string `arg:"" help:"Term slug"`
}

func (c *ShowTermCmd) Run(g *Globals, env *runEnv) error {
	comp, err := env.compileForLookup(g)
	if err != nil {
		return err
	}
	term, ok := comp.Corpus.Term(c.Slug)
	if !ok {
		return fmt.Errorf("term '%s' not found", c.Slug)
	}

	guides, dangling := comp.Resolver.ResolveTermRelations(term)
	view := termView{Term: term, Dangling: dangling}
	view.Collection, _ = comp.Corpus.TermCollection(term.Slug)
	for _, gd := range guides {
		view.Guides = append(view.Guides, gd.Slug)
	}
	for _, gd := range comp.Resolver.GuidesReferencingTerm(term.Slug) {
		view.ReferencedBy = append(view.ReferencedBy, gd.Slug)
	}
	return writeJSON(env.out, view)
}

// guideView is a guide with its relations resolved for display.
type guideView struct {
	Guide        models.Guide     `json:"guide"`
	Collection   string           `json:"collection"`
	Terms        []string         `json:"terms"`
	ReferencedBy []string         `json:"referenced_by"`
	Dangling     []*models.Defect `json:"dangling,omitempty"`
}

// ShowGuideCmd prints one guide.
type ShowGuideCmd struct {
	Slug string `arg:"" help:"Guide slug"`
}

func (c *ShowGuideCmd) Run(g *Globals, env *runEnv) error {
	comp, err := env.compileForLookup(g)
	if err != nil {
		return err
	}
	guide, ok := comp.Corpus.Guide(c.Slug)
	if !ok {
		return fmt.Errorf("guide '%s' not found", c.Slug)
	}

	terms, dangling := comp.Resolver.ResolveGuideRelations(guide)
	view := guideView{Guide: guide, Dangling: dangling}
	view.Collection, _ = comp.Corpus.GuideCollection(guide.Slug)
	for _, t := range terms {
		view.Terms = append(view.Terms, t.Slug)
	}
	for _, t := range comp.Resolver.TermsReferencingGuide(guide.Slug) {
		view.ReferencedBy = append(view.ReferencedBy, t.Slug)
	}
	return writeJSON(env.out, view)
}

// compileForLookup compiles without the strict gate; lookups still work on a
// corpus with defects.
func (env *runEnv) compileForLookup(g *Globals) (*corpus.Compilation, error) {
	a, err := env.newApp(g)
	if err != nil {
		return nil, err
	}
	return a.CorpusService.Compile(context.Background())
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals, env *runEnv) error {
	fmt.Fprintf(env.out, "metricsref %s\n", common.GetFullVersion())
	return nil
}

func printReport(w io.Writer, r *corpus.Report) {
	fmt.Fprintf(w, "%d terms, %d guides, %d defects\n", r.Terms, r.Guides, len(r.Defects))
	for _, d := range r.Defects {
		fmt.Fprintf(w, "  %s\n", d.Error())
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	common.LoadVersionFromFile()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("metricsref"),
		kong.Description("Metrics glossary and guide corpus compiler"),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals, &runEnv{out: os.Stdout})
	ctx.FatalIfErrorf(err)
}
