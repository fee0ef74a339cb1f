package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kutbudev/foodgram/internal/api"
	"github.com/kutbudev/foodgram/internal/models"
	"github.com/urfave/cli/v2"
)

func recipesBrowseCmd() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Page through recipes interactively, enter opens one",
		Flags: recipeFilterFlags(),
		Action: func(c *cli.Context) error {
			client := api.NewClient()
			m := newBrowseModel(c.Context, client, recipeFilter(c))

			final, err := tea.NewProgram(m).Run()
			if err != nil {
				return err
			}
			bm := final.(browseModel)
			if bm.err != nil {
				return describe(bm.err)
			}
			if bm.chosen == 0 {
				return nil
			}

			recipe, err := client.GetRecipe(c.Context, bm.chosen)
			if err != nil {
				return describe(err)
			}
			return renderRecipe(os.Stdout, recipe, terminalWidth())
		},
	}
}

type recipeLister interface {
	ListRecipes(ctx context.Context, filter api.RecipeFilter) (*models.Page[models.Recipe], error)
}

type pageLoadedMsg struct {
	page   *models.Page[models.Recipe]
	number int
}

type loadFailedMsg struct{ err error }

type browseModel struct {
	ctx    context.Context
	client recipeLister
	filter api.RecipeFilter

	table   table.Model
	page    *models.Page[models.Recipe]
	loading bool
	chosen  uint
	err     error
}

var browseFrame = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))

func newBrowseModel(ctx context.Context, client recipeLister, filter api.RecipeFilter) browseModel {
	if filter.Page < 1 {
		filter.Page = 1
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Name", Width: 36},
			{Title: "Author", Width: 16},
			{Title: "Time", Width: 8},
			{Title: "Tags", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#E26C2D"))
	t.SetStyles(styles)

	return browseModel{ctx: ctx, client: client, filter: filter, table: t, loading: true}
}

func (m browseModel) load(number int) tea.Cmd {
	filter := m.filter
	filter.Page = number
	return func() tea.Msg {
		page, err := m.client.ListRecipes(m.ctx, filter)
		if err != nil {
			return loadFailedMsg{err}
		}
		return pageLoadedMsg{page: page, number: number}
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.load(m.filter.Page)
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		m.loading = false
		m.page = msg.page
		m.filter.Page = msg.number
		m.table.SetRows(recipeRows(msg.page.Results))
		m.table.SetCursor(0)
		return m, nil

	case loadFailedMsg:
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if row := m.table.SelectedRow(); row != nil {
				id, _ := strconv.ParseUint(row[0], 10, 64)
				m.chosen = uint(id)
			}
			return m, tea.Quit
		case "n", "right":
			if !m.loading && m.page != nil && m.page.Next != nil {
				m.loading = true
				return m, m.load(m.filter.Page + 1)
			}
			return m, nil
		case "p", "left":
			if !m.loading && m.page != nil && m.page.Previous != nil {
				m.loading = true
				return m, m.load(m.filter.Page - 1)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	if m.page == nil {
		return "Loading recipes...\n"
	}
	status := fmt.Sprintf("page %d · %d recipes", m.filter.Page, m.page.Count)
	if m.loading {
		status += " · loading"
	}
	return browseFrame.Render(m.table.View()) + "\n" +
		metaStyle.Render(status+" · ↑/↓ move · enter open · n/p page · q quit") + "\n"
}

func recipeRows(recipes []models.Recipe) []table.Row {
	rows := make([]table.Row, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, table.Row{
			strconv.FormatUint(uint64(r.ID), 10),
			truncateString(r.Name, 36),
			r.Author.Username,
			fmt.Sprintf("%d min", r.CookingTime),
			truncateString(tagSlugs(r.Tags), 20),
		})
	}
	return rows
}
