// Package cli 提供離線使用的命令列工具，直接讀取目錄檔案做分析與驗證。
package cli

import (
	"context"
	"fmt"
	"strings"

	"mixwise-api/internal/core/cabinet"
	"mixwise-api/internal/core/catalog"
	"mixwise-api/internal/core/cocktail"
	"mixwise-api/internal/core/matching"
	"mixwise-api/internal/pkg/common"

	"github.com/spf13/cobra"
)

// Version 建置時以 -ldflags 設定
var Version = "dev"

var defaultStaples = []string{"ice", "water"}

// catalogFlags 各子命令共用的目錄旗標
type catalogFlags struct {
	path    string
	aliases map[string]string
	brands  []string
}

func (f *catalogFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.path, "catalog", "c", "data/catalog.yaml", "Catalog file (.yaml, .json or .csv)")
	fl.StringToStringVar(&f.aliases, "alias", nil, "Extra ingredient aliases, e.g. --alias 'cointreau=triple-sec'")
	fl.StringSliceVar(&f.brands, "brand", nil, "Extra brand prefixes stripped during resolution")
}

// load 讀取原始目錄文件
func (f *catalogFlags) load(ctx context.Context) (*catalog.Document, error) {
	doc, err := catalog.NewFileSource(f.path).Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return doc, nil
}

func (f *catalogFlags) buildOptions() catalog.BuildOptions {
	return catalog.BuildOptions{
		Aliases: f.aliases,
		Brands:  append(append([]string{}, catalog.DefaultBrands...), f.brands...),
	}
}

// matchFlags 分類與建議共用的比對旗標
type matchFlags struct {
	catalogFlags
	owned      []string
	staples    []string
	maxMissing int
	limit      int
	output     string
}

func (f *matchFlags) register(cmd *cobra.Command) {
	f.catalogFlags.register(cmd)
	fl := cmd.Flags()
	fl.StringSliceVarP(&f.owned, "owned", "o", nil, "Owned ingredients (names, slugs or legacy ids)")
	fl.StringSliceVar(&f.staples, "staples", defaultStaples, "Ingredients assumed always available")
	fl.IntVar(&f.maxMissing, "max-missing", matching.DefaultMaxMissing, "Largest missing count still considered almost there")
	fl.IntVar(&f.limit, "limit", matching.DefaultLimit, "Maximum number of suggestions")
	fl.StringVar(&f.output, "output", outputTable, "Output format: table, json or yaml")
}

// report 載入目錄並執行就緒分析
func (f *matchFlags) report(ctx context.Context) (*cocktail.Report, error) {
	if err := validateOutput(f.output); err != nil {
		return nil, err
	}
	doc, err := f.load(ctx)
	if err != nil {
		return nil, err
	}

	holder := catalog.NewStaticHolder(catalog.Build(doc, f.buildOptions()))
	opts := matching.Options{MaxMissing: f.maxMissing, Limit: f.limit}
	svc, err := cocktail.NewService(holder, cabinet.NewMemoryStore(), nil, opts, f.staples)
	if err != nil {
		return nil, err
	}
	return svc.Readiness(ctx, f.owned, opts)
}

// NewRootCmd 建立根命令
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mixwise",
		Short: "Cocktail readiness and shopping suggestions",
		Long:  "Mixwise classifies a cocktail catalog against the ingredients you own\nand suggests which bottle to buy next.",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
		Version:      Version,
	}

	var logLevel string
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Write logs to stderr at this level (debug, info, warn, error)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if logLevel == "" {
			common.SetLogger(nil)
			return
		}
		common.SetLogger(common.NewConsoleLogger(cmd.ErrOrStderr(), logLevel))
	}

	root.AddCommand(newClassifyCmd())
	root.AddCommand(newSuggestCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newSlugCmd())
	return root
}

func newSlugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slug <name>...",
		Short: "Print the URL slug for recipe or ingredient names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range args {
				fmt.Fprintln(out, catalog.CreateSlug(strings.TrimSpace(name)))
			}
			return nil
		},
	}
}
