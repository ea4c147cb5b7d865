package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/budget-dashboard/internal/common"
	"github.com/Veraticus/budget-dashboard/internal/importer"
	"github.com/Veraticus/budget-dashboard/internal/ledger"
	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/period"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Settings is the typed view of the configuration.
type Settings struct {
	// Today pins the reference date; zero means the current date.
	Today      time.Time
	Dashboard  DashboardSettings
	Data       DataSettings
	Output     OutputSettings
	Categories []model.Category
	Import     importer.Options
}

// DashboardSettings selects the statement period and presentation.
type DashboardSettings struct {
	Filter  model.DateFilter
	Display model.DisplayMode
	RollUp  bool
}

// DataSettings locates the inputs.
type DataSettings struct {
	CategoriesFile string
	Transactions   []string
	Sample         bool
}

// OutputSettings controls rendering.
type OutputSettings struct {
	Format string
	Color  bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dashboard.period", string(model.PeriodThisMonth))
	v.SetDefault("dashboard.display", string(model.DisplayTotal))
	v.SetDefault("dashboard.rollup", false)
	v.SetDefault("import.fuzzy_distance", importer.DefaultFuzzyDistance)
	v.SetDefault("import.fabricate", true)
	v.SetDefault("output.format", FormatTable)
	v.SetDefault("output.color", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads and validates the settings held by v. Every problem found is
// reported, each wrapping common.ErrInvalidConfig.
func Load(v *viper.Viper) (Settings, error) {
	SetDefaults(v)

	s := Settings{
		Dashboard: DashboardSettings{
			Filter: model.DateFilter{
				Mode: model.PeriodMode(strings.TrimSpace(v.GetString("dashboard.period"))),
				From: strings.TrimSpace(v.GetString("dashboard.from")),
				To:   strings.TrimSpace(v.GetString("dashboard.to")),
			},
			Display: model.DisplayMode(strings.TrimSpace(v.GetString("dashboard.display"))),
			RollUp:  v.GetBool("dashboard.rollup"),
		},
		Data: DataSettings{
			CategoriesFile: ExpandPath(v.GetString("data.categories_file")),
			Sample:         v.GetBool("data.sample"),
		},
		Import: importer.Options{
			FuzzyDistance: v.GetInt("import.fuzzy_distance"),
			Fabricate:     v.GetBool("import.fabricate"),
		},
		Output: OutputSettings{
			Format: strings.ToLower(strings.TrimSpace(v.GetString("output.format"))),
			Color:  v.GetBool("output.color"),
		},
	}
	for _, p := range v.GetStringSlice("data.transactions") {
		if p = strings.TrimSpace(p); p != "" {
			s.Data.Transactions = append(s.Data.Transactions, ExpandPath(p))
		}
	}

	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{common.ErrInvalidConfig}, args...)...))
	}

	if today := strings.TrimSpace(v.GetString("dashboard.today")); today != "" {
		t, err := period.ParseISODate(today)
		if err != nil {
			invalid("dashboard.today %q: %v", today, err)
		}
		s.Today = t
	}

	filter := s.Dashboard.Filter
	switch {
	case !filter.Mode.Valid():
		invalid("dashboard.period %q is not one of %s", filter.Mode, joinModes())
	case filter.Mode == model.PeriodCustom:
		if err := period.ValidateCustom(filter.From, filter.To); err != nil {
			invalid("dashboard.from/to: %v", err)
		}
	}
	if !s.Dashboard.Display.Valid() {
		invalid("dashboard.display %q is not one of total, perDay, perMonth, perYear", s.Dashboard.Display)
	}
	if s.Import.FuzzyDistance < 0 {
		invalid("import.fuzzy_distance must not be negative, got %d", s.Import.FuzzyDistance)
	}
	if s.Output.Format != FormatTable && s.Output.Format != FormatJSON {
		invalid("output.format %q is not one of table, json", s.Output.Format)
	}

	cats, err := inlineCategories(v)
	if err != nil {
		errs = append(errs, err)
	}
	s.Categories = cats

	if err := errors.Join(errs...); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// inlineCategories decodes the optional categories list of the config file.
func inlineCategories(v *viper.Viper) ([]model.Category, error) {
	if !v.IsSet("categories") {
		return nil, nil
	}

	var raw []model.Category
	if err := v.UnmarshalKey("categories", &raw); err != nil {
		return nil, fmt.Errorf("%w: categories: %v", common.ErrInvalidConfig, err)
	}

	cats := make([]model.Category, 0, len(raw))
	for i, c := range raw {
		typ, ok := model.ParseCategoryType(string(c.Type))
		if !ok {
			return nil, fmt.Errorf("%w: categories[%d] %q: type %q is not income or expense",
				common.ErrInvalidConfig, i, c.Name, c.Type)
		}
		c.ID = strings.TrimSpace(c.ID)
		c.Name = strings.TrimSpace(c.Name)
		c.ParentID = strings.TrimSpace(c.ParentID)
		c.Type = typ
		if c.Name == "" {
			return nil, fmt.Errorf("%w: categories[%d] has no name", common.ErrInvalidConfig, i)
		}
		cats = append(cats, c)
	}

	if err := ledger.ValidateForest(cats); err != nil {
		return nil, fmt.Errorf("%w: categories: %w", common.ErrInvalidConfig, err)
	}
	return cats, nil
}

func joinModes() string {
	modes := model.AllPeriodModes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
