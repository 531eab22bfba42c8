package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-sitegen/internal/items"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/routes"
	"github.com/goliatone/go-sitegen/internal/rules"
	"github.com/goliatone/go-sitegen/internal/snapshots"
	"github.com/goliatone/go-sitegen/internal/tags"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Service describes the site build contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// ContentSource supplies the discovered items for a build run.
type ContentSource interface {
	Items(ctx context.Context) ([]*items.Item, error)
}

// AssetSource exposes theme-shipped files for the publish copy step.
type AssetSource interface {
	List() []string
	Open(name string) (io.ReadCloser, error)
}

// Config captures runtime behaviour toggles for the build engine.
type Config struct {
	// OutputDir is the root of the published file tree.
	OutputDir string
	// BaseURL is the absolute site root used by URL rewriting, feeds, and
	// the sitemap. Optional for sites that never leave relative form.
	BaseURL string
	// Site carries site-level template fields (Title, Description, Author,
	// plus free-form params), handed to every render untouched.
	Site map[string]any
	// ContentPattern selects document identifiers for the default page rule.
	ContentPattern string
	// RawPatterns select identifiers copied through verbatim.
	RawPatterns []string
	// PageTemplate is the default layout, overridable per item through the
	// template metadata field.
	PageTemplate string

	IncludeDrafts         bool
	CleanBuild            bool
	CopyAssets            bool
	GenerateSitemap       bool
	GenerateRobots        bool
	Workers               int
	AllowOverlappingRules bool

	Tags TagPagesConfig
	Feed FeedConfig
}

// TagPagesConfig controls tag aggregation and the synthesized listing pages.
type TagPagesConfig struct {
	Enabled bool
	// Field is the metadata key holding the tag list.
	Field string
	// Delimiter splits the raw value into individual tags.
	Delimiter string
	// RouteTemplate contains exactly one %s, filled with the sanitized
	// segment of each tag.
	RouteTemplate string
	// Template names the layout rendered once per tag.
	Template string
}

// FeedConfig controls syndication output.
type FeedConfig struct {
	Enabled bool
	// Pattern scopes which items syndicate. Empty means every item.
	Pattern     string
	Path        string
	AtomPath    string
	Title       string
	Description string
	Author      string
	// Snapshot designates the capture entries read their content from.
	Snapshot  string
	Limit     int
	DateField string
}

// BuildOptions narrows the scope of a build run.
type BuildOptions struct {
	// DryRun compiles everything but writes nothing.
	DryRun bool
	// Workers overrides the configured worker count when positive.
	Workers int
	// OutputDir overrides the configured output directory when set.
	OutputDir string
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	ItemsLoaded     int
	ProductsBuilt   int
	ProductsSkipped int
	TagPagesBuilt   int
	FeedEntries     int
	AssetsBuilt     int
	Duration        time.Duration
	Products        []CompiledProduct
	Diagnostics     []ProductDiagnostic
	Errors          []error
	DryRun          bool
}

// Dependencies lists the collaborators required by the build engine.
type Dependencies struct {
	Source   ContentSource
	Registry *rules.Registry
	Renderer interfaces.TemplateRenderer
	Assets   AssetSource
	Logger   interfaces.Logger
}

// NewService wires a build engine with the provided configuration and
// dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	log := deps.Logger
	if log == nil {
		log = logging.NoOp()
	}
	return &service{
		cfg:       cfg,
		deps:      deps,
		log:       log,
		now:       time.Now,
		writerFor: newOSWriter,
	}
}

// NewDisabledService returns a Service that fails all operations with
// ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg       Config
	deps      Dependencies
	log       interfaces.Logger
	now       func() time.Time
	writerFor func(root string) artifactWriter
}

type disabledService struct{}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Source == nil {
		return nil, errSourceRequired
	}
	if s.deps.Registry == nil {
		return nil, errRegistryRequired
	}
	if s.cfg.Tags.Enabled && s.deps.Renderer == nil {
		return nil, errRendererRequired
	}
	outputDir := strings.TrimSpace(opts.OutputDir)
	if outputDir == "" {
		outputDir = strings.TrimSpace(s.cfg.OutputDir)
	}
	if outputDir == "" && !opts.DryRun {
		return nil, errOutputDirRequired
	}

	start := time.Now()
	startedAt := s.now().UTC()
	result := &BuildResult{DryRun: opts.DryRun}

	discovered, err := s.deps.Source.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine: load items: %w", err)
	}

	var errs []error
	list, draftErrs := s.filterDrafts(discovered)
	errs = append(errs, draftErrs...)
	result.ItemsLoaded = len(list)
	s.log.Debug("discovered items", "loaded", len(list), "dropped", len(discovered)-len(list))

	build := &rules.BuildContext{
		StartedAt: startedAt,
		BaseURL:   s.cfg.BaseURL,
		Site:      s.cfg.Site,
		Items:     list,
		Snapshots: snapshots.NewStore(),
	}

	plan, planDiags := s.planProducts(list)
	for _, diag := range planDiags {
		result.Diagnostics = append(result.Diagnostics, diag)
		if diag.Skipped {
			result.ProductsSkipped++
		}
	}

	// Structural validation runs before anything is compiled or written:
	// every output path is claimed up front so a collision or an unroutable
	// tag set fails the run while the output tree is still untouched.
	claims := routes.NewCollisions()
	var fatal []error
	for _, p := range plan.products {
		if err := claims.Claim(p.route, p.item.ID, p.set); err != nil {
			fatal = append(fatal, err)
		}
	}

	var index *tags.Index
	if s.cfg.Tags.Enabled {
		idx, err := tags.BuildIndex(plan.matched, tags.Options{
			Field:     s.cfg.Tags.Field,
			Delimiter: s.cfg.Tags.Delimiter,
		})
		if err != nil {
			fatal = append(fatal, err)
		} else {
			idx.Sort(tags.ByDateDesc(s.dateField()))
			index = idx
			for _, segment := range idx.Segments() {
				if err := claims.Claim(s.tagRoute(segment), tagIdentifier(segment), "tags"); err != nil {
					fatal = append(fatal, err)
				}
			}
		}
	}
	if s.cfg.Feed.Enabled {
		for _, feedPath := range s.feedPaths() {
			if err := claims.Claim(feedPath, items.Identifier("feed"), "feed"); err != nil {
				fatal = append(fatal, err)
			}
		}
	}
	if s.cfg.GenerateSitemap {
		if err := claims.Claim("sitemap.xml", items.Identifier("sitemap"), "sitemap"); err != nil {
			fatal = append(fatal, err)
		}
	}
	if s.cfg.GenerateRobots {
		if err := claims.Claim("robots.txt", items.Identifier("robots"), "robots"); err != nil {
			fatal = append(fatal, err)
		}
	}
	if s.cfg.CopyAssets && s.deps.Assets != nil {
		for _, name := range s.deps.Assets.List() {
			dest := themeAssetRoute(name)
			if dest == "" {
				continue
			}
			if err := claims.Claim(dest, items.NewIdentifier("theme/"+name), "theme"); err != nil {
				fatal = append(fatal, err)
			}
		}
	}

	if len(fatal) > 0 {
		s.log.Error("structural validation failed", "errors", len(fatal))
		result.Duration = time.Since(start)
		result.Errors = append(result.Errors, fatal...)
		return result, errors.Join(fatal...)
	}

	var selfProducts, crossProducts []product
	for _, p := range plan.products {
		if p.rule.Depends == rules.DependAllItems {
			crossProducts = append(crossProducts, p)
			continue
		}
		selfProducts = append(selfProducts, p)
	}

	var (
		mu       sync.Mutex
		compiled = make([]CompiledProduct, 0, len(plan.products))
	)
	collect := func(outcome compileOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.err != nil {
			errs = append(errs, outcome.err)
			return
		}
		if outcome.skipped {
			result.ProductsSkipped++
			return
		}
		result.ProductsBuilt++
		compiled = append(compiled, outcome.product)
	}

	workerCount := s.effectiveWorkerCount(opts.Workers, len(selfProducts))
	if workerCount <= 1 || len(selfProducts) <= 1 {
		for _, p := range selfProducts {
			select {
			case <-ctx.Done():
				collect(abortedOutcome(p, ctx.Err()))
				result.Duration = time.Since(start)
				return result, ctx.Err()
			default:
				collect(s.compileProduct(ctx, build, p))
			}
		}
	} else {
		if err := s.compileConcurrently(ctx, build, selfProducts, workerCount, collect); err != nil {
			errs = append(errs, err)
		}
	}

	// Cross-item products read other items' snapshots and the tag index, so
	// they wait for every self-dependent product to finish.
	build.Tags = index
	for _, p := range crossProducts {
		select {
		case <-ctx.Done():
			collect(abortedOutcome(p, ctx.Err()))
			result.Duration = time.Since(start)
			return result, ctx.Err()
		default:
			collect(s.compileProduct(ctx, build, p))
		}
	}

	tagPages, tagDiags, tagErrs := s.synthesizeTagPages(ctx, build, index, plan)
	result.Diagnostics = append(result.Diagnostics, tagDiags...)
	errs = append(errs, tagErrs...)
	result.TagPagesBuilt = len(tagPages)
	compiled = append(compiled, tagPages...)

	feedDocs, entryCount, feedErrs := s.synthesizeFeeds(build, plan)
	errs = append(errs, feedErrs...)
	result.FeedEntries = entryCount

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Route < compiled[j].Route
	})
	result.Products = compiled

	if opts.DryRun {
		result.Duration = time.Since(start)
		if len(errs) > 0 {
			result.Errors = append(result.Errors, errs...)
			return result, errors.Join(errs...)
		}
		return result, nil
	}

	writer := s.writerFor(outputDir)
	if s.cfg.CleanBuild {
		if err := writer.RemoveAll(ctx, "."); err != nil {
			errs = append(errs, err)
		}
	}
	if err := writer.EnsureDir(ctx, "."); err != nil {
		errs = append(errs, err)
	}
	if err := s.persistProducts(ctx, writer, compiled); err != nil {
		errs = append(errs, err)
	}
	if err := s.writeFeeds(ctx, writer, feedDocs); err != nil {
		errs = append(errs, err)
	}
	if s.cfg.GenerateSitemap {
		if err := s.writeSitemap(ctx, writer, compiled, startedAt); err != nil {
			errs = append(errs, err)
		}
	}
	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, writer, startedAt); err != nil {
			errs = append(errs, err)
		}
	}
	if s.cfg.CopyAssets {
		built, err := s.copyThemeAssets(ctx, writer)
		if err != nil {
			errs = append(errs, err)
		} else {
			result.AssetsBuilt += built
		}
	}

	result.Duration = time.Since(start)
	s.log.Info("build finished",
		"items", result.ItemsLoaded,
		"products", result.ProductsBuilt,
		"tag_pages", result.TagPagesBuilt,
		"feed_entries", result.FeedEntries,
		"errors", len(errs),
		"duration", result.Duration,
	)
	if len(errs) > 0 {
		result.Errors = append(result.Errors, errs...)
		return result, errors.Join(errs...)
	}
	return result, nil
}

func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(s.cfg.OutputDir) == "" {
		return errOutputDirRequired
	}
	return s.writerFor(s.cfg.OutputDir).RemoveAll(ctx, ".")
}

// planProducts pairs every item with every matching rule and resolves output
// routes. Routes that decline an identifier skip that product with a
// diagnostic instead of failing the run.
func (s *service) planProducts(list []*items.Item) (buildPlan, []ProductDiagnostic) {
	plan := buildPlan{primary: map[items.Identifier]string{}}
	var diags []ProductDiagnostic
	for _, item := range list {
		if item == nil {
			continue
		}
		matches := s.deps.Registry.MatchAll(item.ID)
		if len(matches) == 0 {
			continue
		}
		matched := false
		for _, match := range matches {
			route, ok := match.Rule.Route.Resolve(item.ID, match.Captures)
			if !ok {
				diags = append(diags, ProductDiagnostic{
					Identifier: item.ID,
					Set:        match.Set,
					Rule:       match.Rule.DisplayName(),
					Skipped:    true,
				})
				continue
			}
			matched = true
			plan.products = append(plan.products, product{
				item:     item,
				set:      match.Set,
				rule:     match.Rule,
				captures: match.Captures,
				route:    route,
			})
			if _, claimed := plan.primary[item.ID]; !claimed {
				plan.primary[item.ID] = route
			}
		}
		if matched {
			plan.matched = append(plan.matched, item)
		}
	}
	return plan, diags
}

func (s *service) compileConcurrently(
	ctx context.Context,
	build *rules.BuildContext,
	products []product,
	workers int,
	collect func(compileOutcome),
) error {
	if len(products) == 0 {
		return nil
	}

	jobs := make(chan product)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				select {
				case <-ctx.Done():
					collect(abortedOutcome(p, ctx.Err()))
					return
				default:
					collect(s.compileProduct(ctx, build, p))
				}
			}
		}()
	}

	for _, p := range products {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- p:
		}
	}
	close(jobs)
	wg.Wait()
	return nil
}

func (s *service) compileProduct(ctx context.Context, build *rules.BuildContext, p product) compileOutcome {
	outcome := compileOutcome{
		diagnostic: ProductDiagnostic{
			Identifier: p.item.ID,
			Set:        p.set,
			Rule:       p.rule.DisplayName(),
			Route:      p.route,
		},
	}

	select {
	case <-ctx.Done():
		outcome.err = ctx.Err()
		outcome.diagnostic.Err = ctx.Err()
		return outcome
	default:
	}

	start := time.Now()
	body, err := rules.RunChain(ctx, build, p.rule, p.item)
	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	if err != nil {
		logger := logging.FromContext(ctx, s.log)
		logging.WithProductContext(logger, p.item.ID.String(), p.rule.DisplayName(), p.route).
			Warn("product compile failed", "error", err)
		outcome.err = err
		outcome.diagnostic.Err = err
		return outcome
	}

	outcome.product = CompiledProduct{
		Identifier: p.item.ID,
		Set:        p.set,
		Rule:       p.rule.DisplayName(),
		Route:      p.route,
		Body:       body,
		Checksum:   computeHash(body),
		Modified:   p.item.Modified,
		Duration:   duration,
	}
	return outcome
}

func abortedOutcome(p product, err error) compileOutcome {
	return compileOutcome{
		diagnostic: ProductDiagnostic{
			Identifier: p.item.ID,
			Set:        p.set,
			Rule:       p.rule.DisplayName(),
			Route:      p.route,
			Err:        err,
		},
		err: err,
	}
}

// filterDrafts drops items flagged as drafts unless the run includes them. An
// unparsable draft flag is reported but keeps the item visible rather than
// hiding content behind a typo.
func (s *service) filterDrafts(list []*items.Item) ([]*items.Item, []error) {
	if s.cfg.IncludeDrafts {
		return list, nil
	}
	out := make([]*items.Item, 0, len(list))
	var errs []error
	for _, item := range list {
		if item == nil {
			continue
		}
		draft, err := item.Metadata.Bool(items.FieldDraft)
		if err != nil && !errors.Is(err, items.ErrFieldMissing) {
			errs = append(errs, err)
		}
		if draft {
			continue
		}
		out = append(out, item)
	}
	return out, errs
}

func (s *service) dateField() string {
	if field := strings.TrimSpace(s.cfg.Feed.DateField); field != "" {
		return field
	}
	return items.FieldDate
}

func (s *service) tagRoute(segment string) string {
	template := strings.TrimSpace(s.cfg.Tags.RouteTemplate)
	if template == "" {
		template = "tags/%s/index.html"
	}
	return fmt.Sprintf(template, segment)
}

func (s *service) feedPath() string {
	if p := strings.TrimSpace(s.cfg.Feed.Path); p != "" {
		return p
	}
	return "feed.xml"
}

func (s *service) feedPaths() []string {
	paths := []string{s.feedPath()}
	if atom := strings.TrimSpace(s.cfg.Feed.AtomPath); atom != "" {
		paths = append(paths, atom)
	}
	return paths
}

func (s *service) effectiveWorkerCount(requested, productCount int) int {
	workers := requested
	if workers <= 0 {
		workers = s.cfg.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if productCount > 0 && workers > productCount {
		return productCount
	}
	return workers
}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}
