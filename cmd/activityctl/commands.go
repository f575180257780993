package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-activity-go/internal/client"
	"github.com/cmlabs-hris/hris-activity-go/internal/config"
	"github.com/cmlabs-hris/hris-activity-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-activity-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/jwt"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type TokenCmd struct {
	User     string `help:"User ID." required:""`
	Employee string `help:"Employee ID." required:""`
	Company  string `help:"Company ID." required:""`
	Role     string `help:"Role." enum:"super_admin,line_manager,employee" default:"employee"`
}

func (c *TokenCmd) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("create jwt service: %w", err)
	}

	token, expiresAt, err := jwtService.GenerateAccessToken(jwt.Claims{
		UserID:     c.User,
		EmployeeID: c.Employee,
		CompanyID:  c.Company,
		Role:       user.Role(c.Role),
	})
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires", time.Unix(expiresAt, 0).Format(time.RFC3339))
	return nil
}

// APIFlags are shared by the commands that talk to a running server.
type APIFlags struct {
	BaseURL string        `help:"API root." env:"ACTIVITY_API_URL" default:"http://localhost:8080/api/v1"`
	Token   string        `help:"Bearer token." env:"ACTIVITY_TOKEN" required:""`
	Timeout time.Duration `help:"Request timeout." default:"15s"`
}

func (f APIFlags) client() *client.Client {
	return client.New(f.BaseURL, f.Token)
}

type ClockCmd struct {
	APIFlags `embed:""`
}

func (c *ClockCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	snap, err := c.client().Clock(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s (%s)\n", snap.Today, snap.CurrentLabel, snap.Timezone)
	fmt.Printf("slot %d, %.0f%% elapsed, %ds remaining\n", snap.CurrentSlot, snap.ProgressPercent, snap.SecondsRemaining)
	fmt.Printf("work window %s, loggable now: %t\n", snap.WorkWindowLabel, snap.WithinWorkWindow)
	return nil
}

type SlotsCmd struct {
	APIFlags `embed:""`
	Date string `help:"Civil date (YYYY-MM-DD). Defaults to today in the server timezone."`

	out io.Writer
}

func (c *SlotsCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	api := c.client()
	snap, err := api.Clock(ctx)
	if err != nil {
		return err
	}

	clk, err := clock.New(snap.Timezone)
	if err != nil {
		return err
	}

	store := client.NewStore(api, clk, snap.WorkWindow)
	defer store.Close()

	if err := store.Reload(ctx, c.Date); err != nil {
		return err
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	printTable(out, store.SlotTable(clk.Now()))
	return nil
}

func printTable(w io.Writer, grid activity.SlotTable) {
	fmt.Fprintf(w, "%s (%s)\n", grid.Date, grid.Timezone)

	rows := make([][]string, 0, len(grid.Slots))
	for _, s := range grid.Slots {
		descriptions := make([]string, 0, len(s.Activities))
		for _, a := range s.Activities {
			descriptions = append(descriptions, fmt.Sprintf("%s [%s]", a.Description, a.Status))
		}
		rows = append(rows, []string{s.TimeLabel, string(s.Status), strings.Join(descriptions, "; ")})
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Headers("SLOT", "STATUS", "ACTIVITIES").
		Rows(rows...).
		Border(lipgloss.RoundedBorder()).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Bold(true)
			}
			return cell
		})
	fmt.Fprintln(w, t.Render())

	fmt.Fprintf(w, "\n%d activities (pending %d, ongoing %d, completed %d), %d missed slots",
		grid.TotalActivities,
		grid.StatusCounts.Pending,
		grid.StatusCounts.Ongoing,
		grid.StatusCounts.Completed,
		grid.MissedSlotCount,
	)
	if grid.Excluded > 0 {
		fmt.Fprintf(w, ", %d outside the grid", grid.Excluded)
	}
	fmt.Fprintln(w)
}
