// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/toeirei/trustdesk/internal/i18n"
	"github.com/toeirei/trustdesk/internal/listing"
	"github.com/toeirei/trustdesk/internal/model"
	"github.com/toeirei/trustdesk/util/slicest"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// pageSize turns the configured page size into the first page.
func pageSize(limit int) (model.Pagination, error) {
	if limit == 0 {
		limit = model.DefaultLimit
	}
	return model.NewPagination(limit, 0)
}

func newRelationshipsCmd(a *app) *cobra.Command {
	var state, typ, requestType, search string
	var limit, offset int
	var randomStates bool

	cmd := &cobra.Command{
		Use:     "relationships",
		Aliases: []string{"rels", "ls"},
		Short:   "List the trust relationships of the current wallet",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.session.IsLoggedIn() {
				return errors.New(i18n.T("session.not_logged_in"))
			}

			filter, err := model.NewFilter(state, typ, requestType)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.Listing.PageSize
				if limit == 0 {
					limit = model.DefaultLimit
				}
			}
			page, err := model.NewPagination(limit, offset)
			if err != nil {
				return err
			}

			opts := []listing.StoreOption{listing.WithPagination(page), listing.WithFilter(filter)}
			if randomStates {
				seed := uint64(time.Now().UnixNano())
				opts = append(opts, listing.WithRowTransform(listing.RandomStates(rand.New(rand.NewPCG(seed, seed>>1)))))
			}
			store := a.newListing(opts...)
			defer store.Close()

			store.Start(cmd.Context())
			store.Wait()
			store.SetSearchString(search)

			st := store.Snapshot()
			if st.Message != "" {
				return errors.New(st.Message)
			}
			renderRelationships(cmd.OutOrStdout(), st)
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Filter by state")
	cmd.Flags().StringVar(&typ, "type", "", "Filter by type")
	cmd.Flags().StringVar(&requestType, "request-type", "", "Filter by request type")
	cmd.Flags().IntVar(&limit, "limit", model.DefaultLimit, "Rows per page (defaults to the configured page size)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")
	cmd.Flags().StringVar(&search, "search", "", "Only show rows containing this text")
	cmd.Flags().BoolVar(&randomStates, "random-states", false, "Replace row states with random demo values")
	_ = cmd.Flags().MarkHidden("random-states")
	return cmd
}

// renderRelationships prints the visible rows as a table followed by the
// range line.
func renderRelationships(w io.Writer, st listing.State) {
	rows := st.VisibleRows()
	if len(rows) == 0 {
		fmt.Fprintln(w, i18n.T("listing.empty"))
	} else {
		headers := slicest.Map(listing.Columns, listing.Column.Title)

		stateCol := -1
		for i, c := range listing.Columns {
			if c.Name == "state" {
				stateCol = i
			}
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(borderStyle).
			Headers(headers...)
		for _, r := range rows {
			cells := slicest.Map(listing.Columns, func(c listing.Column) string { return c.Render(r) })
			if stateCol >= 0 {
				if opt, ok := listing.Lookup(listing.StatesList, r.State); ok {
					cells[stateCol] = opt.LocalLabel()
				}
			}
			t.Row(cells...)
		}
		t.StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == stateCol && row >= 0 && row < len(rows) {
				if opt, ok := listing.Lookup(listing.StatesList, rows[row].State); ok {
					return opt.Style().Padding(0, 1)
				}
			}
			return cellStyle
		})
		fmt.Fprintln(w, t.Render())
	}

	from, to, total := st.Range()
	fmt.Fprintln(w, i18n.T("listing.range", from, to, total))
}
