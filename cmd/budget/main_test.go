package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-dashboard/internal/common"
	"github.com/Veraticus/budget-dashboard/internal/ledger"
)

type cliResult struct {
	err    error
	stdout string
	stderr string
}

// runCLI executes the root command in isolation: a fresh viper, no user
// config, colors off and the sample clock pinned to 2025-10-15.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--color=false", "--log-level", "error", "--today", "2025-10-15"}, args...))

	err := root.ExecuteContext(context.Background())
	return cliResult{err: err, stdout: out.String(), stderr: errOut.String()}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCmd(t *testing.T) {
	root := newRootCmd()

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"statement", "periods", "categories", "transactions", "import", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	flag := root.PersistentFlags().Lookup("format")
	require.NotNil(t, flag)
	assert.Equal(t, "table", flag.DefValue)
}

func TestVersionCmd(t *testing.T) {
	res := runCLI(t, "", "version")
	require.NoError(t, res.err)
	assert.Equal(t, "budget dev\n", res.stdout)
}

func TestStatementCmd(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		contains    []string
		notContains []string
	}{
		{
			name: "this month",
			args: []string{"statement", "--sample"},
			contains: []string{
				"This month: 2025-10-01 to 2025-10-31 (31 days)",
				"Income 16,000.00  Expenses -305.00  Net 15,695.00  Saving rate 98.09%",
				"Restaurants",
				"Food Delivery",
			},
			notContains: []string{"Gifts"},
		},
		{
			name: "last month",
			args: []string{"statement", "--sample", "--period", "lastMonth"},
			contains: []string{
				"Last month: 2025-09-01 to 2025-09-30 (30 days)",
				"Saving rate n/a",
				"Gifts",
				"-150.00",
			},
		},
		{
			name: "rolled up",
			args: []string{"statement", "--sample", "--rollup"},
			contains: []string{
				"parents include subcategories",
				"Food & Drinks",
				"-305.00",
			},
		},
		{
			name: "custom range per month",
			args: []string{"statement", "--sample", "--period", "custom", "--from", "2025-09-01", "--to", "2025-10-31", "--display", "perMonth"},
			contains: []string{
				"Custom range: 2025-09-01 to 2025-10-31 (61 days)",
				"amounts shown per month",
				"Income 8,000.00",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			require.NoError(t, res.err, res.stderr)
			for _, want := range tt.contains {
				assert.Contains(t, res.stdout, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, res.stdout, unwanted)
			}
		})
	}
}

func TestStatementCmd_JSON(t *testing.T) {
	res := runCLI(t, "", "statement", "--sample", "--format", "json")
	require.NoError(t, res.err)

	var got struct {
		Totals struct {
			Income   string `json:"income"`
			Expenses string `json:"expenses"`
			Net      string `json:"net"`
		} `json:"totals"`
		Expenses []struct {
			CategoryID string `json:"categoryId"`
		} `json:"expenses"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, "16000", got.Totals.Income)
	assert.Equal(t, "-305", got.Totals.Expenses)
	assert.Equal(t, "15695", got.Totals.Net)
	assert.Len(t, got.Expenses, 2)
}

func TestStatementCmd_InvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown period", args: []string{"statement", "--period", "fortnight"}},
		{name: "custom without bounds", args: []string{"statement", "--period", "custom"}},
		{name: "inverted custom range", args: []string{"statement", "--period", "custom", "--from", "2025-02-01", "--to", "2025-01-01"}},
		{name: "unknown display", args: []string{"statement", "--display", "perWeek"}},
		{name: "unknown format", args: []string{"statement", "--format", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			require.Error(t, res.err)
			assert.ErrorIs(t, res.err, common.ErrInvalidConfig)
			assert.Equal(t, "Invalid configuration", common.UserMessage(res.err))
		})
	}
}

func TestStatementCmd_ConfigFile(t *testing.T) {
	cfg := writeFile(t, "config.yaml", `
dashboard:
  period: thisYear
data:
  sample: true
categories:
  - {id: inc, name: Income, type: income}
  - {id: fun, name: Fun, type: expense}
`)

	res := runCLI(t, "", "--config", cfg, "statement")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "This year: 2025-01-01 to 2025-12-31 (365 days)")
	// Sample transactions point at ids the inline tree does not define.
	assert.Contains(t, res.stdout, ledger.UnmappedIncomeName)
	assert.Contains(t, res.stdout, ledger.UnmappedExpenseName)
}

func TestPeriodsCmd(t *testing.T) {
	res := runCLI(t, "", "periods")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 13) // header plus twelve modes
	assert.True(t, strings.HasPrefix(lines[0], "MODE"))

	var lastQuarter string
	for _, l := range lines {
		if strings.HasPrefix(l, "lastQuarter") {
			lastQuarter = l
		}
	}
	assert.Contains(t, lastQuarter, "2025-07-01")
	assert.Contains(t, lastQuarter, "2025-09-30")
	assert.Contains(t, lastQuarter, "92")
	assert.Contains(t, lastQuarter, "3.00")
}

func TestPeriodsCmd_JSON(t *testing.T) {
	res := runCLI(t, "", "periods", "--format", "json")
	require.NoError(t, res.err)

	var got []struct {
		Mode string `json:"mode"`
		From string `json:"from"`
		To   string `json:"to"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	require.Len(t, got, 12)
	assert.Equal(t, "thisWeek", got[0].Mode)
	assert.Equal(t, "2025-10-13", got[0].From)
	assert.Equal(t, "2025-10-19", got[0].To)
}

func TestCategoriesTreeCmd(t *testing.T) {
	res := runCLI(t, "", "categories", "tree", "--sample")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Food & Drinks (expense) [exp-food]\n  Food Delivery (expense) [exp-food-delivery]")

	outline := writeFile(t, "categories.txt", "Income\n-Salary\nHousing\n-Rent\n")
	res = runCLI(t, "", "categories", "tree", "--categories", outline)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Income (income) [Income]\n  Salary (income) [Income > Salary]")
	assert.Contains(t, res.stdout, "Housing (expense) [Housing]\n  Rent (expense) [Housing > Rent]")
}

func TestCategoriesValidateCmd(t *testing.T) {
	t.Run("valid outline", func(t *testing.T) {
		path := writeFile(t, "ok.txt", "Income\n-Salary\nFood\n-Groceries\n")
		res := runCLI(t, "", "categories", "validate", path)
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "4 categories, tree is valid")
	})

	t.Run("cycle in json", func(t *testing.T) {
		path := writeFile(t, "cycle.json", `[
  {"id": "a", "name": "A", "parentId": "b", "type": "expense"},
  {"id": "b", "name": "B", "parentId": "a", "type": "expense"}
]`)
		res := runCLI(t, "", "categories", "validate", path)
		require.Error(t, res.err)
		assert.ErrorIs(t, res.err, ledger.ErrCategoryCycle)
		assert.Contains(t, res.stdout, "cycle")
	})

	t.Run("type mismatch warns", func(t *testing.T) {
		path := writeFile(t, "mixed.json", `[
  {"id": "food", "name": "Food", "type": "expense"},
  {"id": "refunds", "name": "Refunds", "parentId": "food", "type": "income"}
]`)
		res := runCLI(t, "", "categories", "validate", path)
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "Refunds is income but its parent Food is expense")
	})
}

func TestCategoriesExportCmd(t *testing.T) {
	res := runCLI(t, "", "categories", "export", "--sample")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "Food & Drinks\n-Food Delivery\n-Restaurants\nIncome\n"), res.stdout)
}

func TestCategoriesAddCmd(t *testing.T) {
	res := runCLI(t, "", "categories", "add", "Freelance", "--parent", "income-root", "--sample")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Added Freelance (income) as cat-1")
	assert.Contains(t, res.stdout, "  Freelance (income) [cat-1]")

	res = runCLI(t, "", "categories", "add", "Salary")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Salary (income) [cat-1]")

	res = runCLI(t, "", "categories", "add", "Refunds", "--parent", "exp-food", "--type", "income", "--sample")
	require.Error(t, res.err)
	assert.Equal(t, "Could not add the category", common.UserMessage(res.err))
}

func TestCategoriesDeleteCmd(t *testing.T) {
	t.Run("confirmed by flag", func(t *testing.T) {
		res := runCLI(t, "", "categories", "delete", "exp-food", "--yes", "--sample")
		require.NoError(t, res.err)
		assert.Contains(t, res.stderr, "Deleted 3 categories, 2 transaction(s) now uncategorised")
		assert.NotContains(t, res.stdout, "Restaurants")
		assert.Contains(t, res.stdout, "Gifts")
	})

	t.Run("confirmed at prompt", func(t *testing.T) {
		res := runCLI(t, "y\n", "categories", "delete", "exp-gifts", "--sample")
		require.NoError(t, res.err)
		assert.Contains(t, res.stderr, `Delete "Gifts" and all of its subcategories? [y/N]`)
		assert.Contains(t, res.stderr, "Deleted 1 category, 1 transaction(s) now uncategorised")
	})

	t.Run("declined", func(t *testing.T) {
		res := runCLI(t, "n\n", "categories", "delete", "exp-food", "--sample")
		require.NoError(t, res.err)
		assert.Contains(t, res.stderr, "Nothing deleted.")
		assert.Empty(t, res.stdout)
	})

	t.Run("unknown id", func(t *testing.T) {
		res := runCLI(t, "", "categories", "delete", "nope", "--yes", "--sample")
		require.Error(t, res.err)
		assert.Equal(t, "Unknown category", common.UserMessage(res.err))
	})
}

func TestTransactionsListCmd(t *testing.T) {
	res := runCLI(t, "", "transactions", "list", "--sample", "--account", "Card", "--sort", "amount", "--asc")
	require.NoError(t, res.err)

	dinner := strings.Index(res.stdout, "Dinner out")
	gift := strings.Index(res.stdout, "Gift for friend")
	delivery := strings.Index(res.stdout, "Food delivery")
	require.Positive(t, dinner)
	assert.Less(t, dinner, gift)
	assert.Less(t, gift, delivery)
	assert.NotContains(t, res.stdout, "September Salary")
}

func TestTransactionsListCmd_Filters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "search", args: []string{"--search", "delivery"}, want: []string{"Food delivery"}},
		{name: "label", args: []string{"--label", "gift"}, want: []string{"Gift for friend"}},
		{name: "category", args: []string{"--category", "exp-restaurants"}, want: []string{"Dinner out"}},
		{name: "amount above", args: []string{"--amount", "gt", "--min", "0"}, want: []string{"September Salary"}},
		{name: "date before", args: []string{"--date", "before", "--date-from", "2025-09-30"}, want: []string{"Gift for friend"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", append([]string{"tx", "list", "--sample", "--format", "json"}, tt.args...)...)
			require.NoError(t, res.err)

			var got []struct {
				Description string `json:"description"`
			}
			require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
			descriptions := make([]string, len(got))
			for i, g := range got {
				descriptions[i] = g.Description
			}
			assert.Equal(t, tt.want, descriptions)
		})
	}
}

func TestTransactionsListCmd_InvalidFilter(t *testing.T) {
	res := runCLI(t, "", "tx", "list", "--sample", "--sort", "mood")
	require.Error(t, res.err)
	assert.Equal(t, "Invalid filter", common.UserMessage(res.err))

	res = runCLI(t, "", "tx", "list", "--sample", "--amount", "gt", "--min", "lots")
	require.Error(t, res.err)
	assert.Equal(t, "Invalid --min amount", common.UserMessage(res.err))
}

func TestTransactionsEditCmds(t *testing.T) {
	t.Run("recategorize", func(t *testing.T) {
		res := runCLI(t, "", "tx", "recategorize", "exp-gifts", "2", "--sample")
		require.NoError(t, res.err)
		assert.Contains(t, res.stderr, "Updated 1 transaction(s)")
		assert.Contains(t, lineWith(res.stdout, "Dinner out"), "Life & Entertainment > Gifts")
	})

	t.Run("clear category", func(t *testing.T) {
		res := runCLI(t, "", "tx", "recategorize", "--clear", "2,3", "--sample")
		require.NoError(t, res.err)
		assert.Contains(t, res.stderr, "Updated 2 transaction(s)")
		assert.NotContains(t, res.stdout, "Food & Drinks >")
	})

	t.Run("unknown category", func(t *testing.T) {
		res := runCLI(t, "", "tx", "recategorize", "nope", "2", "--sample")
		require.Error(t, res.err)
		assert.Equal(t, "Could not recategorise", common.UserMessage(res.err))
	})

	t.Run("label", func(t *testing.T) {
		res := runCLI(t, "", "tx", "label", "Late; food", "3", "--sample")
		require.NoError(t, res.err)
		assert.Contains(t, lineWith(res.stdout, "Food delivery"), "Food, Delivery, Late")
	})

	t.Run("delete", func(t *testing.T) {
		res := runCLI(t, "", "tx", "delete", "1", "--yes", "--sample")
		require.NoError(t, res.err)
		assert.Contains(t, res.stderr, "Deleted 1 transaction(s)")
		assert.NotContains(t, res.stdout, "September Salary")
		assert.Contains(t, res.stdout, "Dinner out")
	})

	t.Run("delete unknown id", func(t *testing.T) {
		res := runCLI(t, "", "tx", "delete", "1", "99", "--yes", "--sample")
		require.Error(t, res.err)
		assert.Equal(t, "Could not delete transactions", common.UserMessage(res.err))
	})
}

func TestTransactionsFromJSONFile(t *testing.T) {
	path := writeFile(t, "txs.json", `[
  {"id": 7, "date": "2025-10-02", "description": "Paycheck", "amount": "2500.00"},
  {"date": "2025-10-03", "description": "Rent", "amount": -1200}
]`)

	res := runCLI(t, "", "statement", "--transactions", path)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Income 2,500.00  Expenses -1,200.00  Net 1,300.00  Saving rate 52.00%")
}

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []int
		wantErr bool
	}{
		{name: "separate", args: []string{"1", "2"}, want: []int{1, 2}},
		{name: "comma list", args: []string{"1,2", "5"}, want: []int{1, 2, 5}},
		{name: "spaces and trailing comma", args: []string{" 3 ,"}, want: []int{3}},
		{name: "not a number", args: []string{"x"}, wantErr: true},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "nothing", args: []string{","}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIDs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func lineWith(text, needle string) string {
	for _, l := range strings.Split(text, "\n") {
		if strings.Contains(l, needle) {
			return l
		}
	}
	return ""
}
