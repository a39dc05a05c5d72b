package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-instancetab/components/instancetab"
	"github.com/goliatone/go-instancetab/components/instancetab/gorouter"
	"github.com/goliatone/go-instancetab/components/instancetab/httpapi"
	"github.com/goliatone/go-instancetab/internal/config"
	"github.com/goliatone/go-instancetab/internal/logging"
)

type cli struct {
	Config string `type:"path" help:"Path to the instancetab YAML config file."`

	Render   renderCmd   `cmd:"" help:"Render one instance tab to stdout."`
	Serve    serveCmd    `cmd:"" help:"Serve instance tabs over HTTP."`
	Scaffold scaffoldCmd `cmd:"" help:"Add a tab definition to a tab manifest."`
}

type renderCmd struct {
	Instances string `required:"" type:"existingfile" help:"JSON file with one instance or an array of instances."`
	Instance  string `help:"Instance id to render (defaults to the first instance in the file)."`
	Code      string `default:"addon-url-instance-tab-v3" help:"Tab code to render."`
}

type serveCmd struct {
	Instances string `required:"" type:"existingfile" help:"JSON file with the instances to serve."`
	Addr      string `help:"Listen address (overrides server.addr)."`
}

type scaffoldCmd struct {
	Code         string `required:"" help:"Tab code (e.g. acme-cost-tab)."`
	Name         string `required:"" help:"Display name for the tab."`
	Description  string `help:"One-line description."`
	Section      string `default:"instance" enum:"instance,overview" help:"Host section the tab appears in."`
	Template     string `help:"Template name (defaults to hbs/<code>)."`
	ManifestPath string `required:"" type:"path" help:"Path to the tab manifest YAML file to update."`
	Overwrite    bool   `help:"Replace an existing entry with the same code."`
}

func main() {
	var root cli
	ctx := kong.Parse(&root,
		kong.Name("tabctl"),
		kong.Description("Render and serve cloud instance tabs."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)
	err := ctx.Run(&root)
	ctx.FatalIfErrorf(err)
}

func (c *cli) load() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(config.New(), c.Config)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func (cmd *renderCmd) Run(ctx context.Context, root *cli) error {
	cfg, logger, err := root.load()
	if err != nil {
		return err
	}
	return renderTab(ctx, cfg, logger, cmd.Instances, cmd.Instance, cmd.Code, os.Stdout)
}

func renderTab(ctx context.Context, cfg config.Config, logger logrus.FieldLogger, instancesPath, instanceID, code string, out io.Writer) error {
	instances, err := instancetab.LoadInstancesFile(instancesPath)
	if err != nil {
		return err
	}
	if len(instances) == 0 {
		return errors.New("tabctl: instances file is empty")
	}
	instance := instances[0]
	if instanceID != "" {
		instance, err = instancetab.NewMemoryInstanceSource(instances...).Instance(ctx, instanceID)
		if err != nil {
			return err
		}
	}

	a, err := newApp(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	result := a.service.Render(ctx, instancetab.RenderRequest{Code: code, Instance: instance})
	if !result.OK() {
		return result.Err
	}
	_, err = io.WriteString(out, result.Markup)
	return err
}

func (cmd *serveCmd) Run(ctx context.Context, root *cli) error {
	cfg, logger, err := root.load()
	if err != nil {
		return err
	}
	instances, err := instancetab.LoadInstancesFile(cmd.Instances)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:   server.Router(),
		API:      httpapi.NewQueryExecutor(a.service, instancetab.NewMemoryInstanceSource(instances...)),
		BasePath: cfg.Server.BasePath,
	}); err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if cmd.Addr != "" {
		addr = cmd.Addr
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(addr) }()
	logger.WithFields(logrus.Fields{"addr": addr, "base_path": cfg.Server.BasePath, "instances": len(instances)}).Info("serving instance tabs")

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	path, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("tabctl: resolve manifest path: %w", err)
	}
	def := instancetab.TabDefinition{
		Code:        cmd.Code,
		Name:        cmd.Name,
		Description: cmd.Description,
		Section:     instancetab.TabSection(cmd.Section),
		Template:    cmd.Template,
	}
	if def.Template == "" {
		def.Template = defaultTemplateName(cmd.Code)
	}
	if err := scaffoldManifest(path, def, cmd.Overwrite); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s (template %s)\n", def.Code, path, def.Template)
	return nil
}

func scaffoldManifest(path string, def instancetab.TabDefinition, overwrite bool) error {
	doc, err := loadOrInitManifest(path)
	if err != nil {
		return err
	}
	replaced := false
	for idx := range doc.Tabs {
		if doc.Tabs[idx].Code != def.Code {
			continue
		}
		if !overwrite {
			return fmt.Errorf("tabctl: manifest already defines tab %s (use --overwrite to replace)", def.Code)
		}
		doc.Tabs[idx] = def
		replaced = true
	}
	if !replaced {
		doc.Tabs = append(doc.Tabs, def)
	}
	sort.Slice(doc.Tabs, func(i, j int) bool { return doc.Tabs[i].Code < doc.Tabs[j].Code })
	if err := doc.Validate(); err != nil {
		return err
	}
	return writeManifest(path, doc)
}

func defaultTemplateName(code string) string {
	return "hbs/" + strcase.ToKebab(code)
}

func loadOrInitManifest(path string) (*instancetab.TabManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &instancetab.TabManifestDocument{
				Version: instancetab.ManifestVersion,
				Tabs:    []instancetab.TabDefinition{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("tabctl: stat manifest: %w", err)
	}
	return instancetab.ReadManifest(path)
}

func writeManifest(path string, doc *instancetab.TabManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("tabctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("tabctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("tabctl: write manifest: %w", err)
	}
	return nil
}
