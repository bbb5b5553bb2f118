/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cli

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tomoncle/mediatek/database"
	"github.com/tomoncle/mediatek/model"
	"github.com/tomoncle/mediatek/types"
)

type writeResult struct {
	Affected int64        `json:"affected"`
	Fields   types.Fields `json:"fields,omitempty"`
}

type seedResult struct {
	File         string `json:"file"`
	RowsAffected int64  `json:"rows_affected"`
}

type initResult struct {
	Tables int          `json:"tables"`
	Seeded []seedResult `json:"seeded"`
}

func newInitCommand(opts *globalOptions) *cobra.Command {
	var seedDir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the catalog tables and optionally run seed files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			session, err := opts.connect(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			registry := model.Registry()
			if err := session.CreateSchema(ctx, registry); err != nil {
				return err
			}
			res := initResult{Tables: len(registry.Models()), Seeded: []seedResult{}}
			if seedDir != "" {
				results, err := session.Seed(ctx, seedDir)
				if err != nil {
					return err
				}
				for _, r := range results {
					res.Seeded = append(res.Seeded, seedResult{File: filepath.Base(r.File), RowsAffected: r.RowsAffected})
				}
			}
			return writeJSON(cmd.OutOrStdout(), "", res)
		},
	}
	cmd.Flags().StringVar(&seedDir, "seed", "", "directory holding common/ and environments/<env>/ seed files")
	return cmd
}

func newSelectCommand(opts *globalOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "select TABLE [FILTER]",
		Short: "List the rows of a table or catalog listing",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter types.Fields
			if len(args) == 2 {
				var err error
				if filter, err = parseFields(args[1], opts.stdin); err != nil {
					return err
				}
			}
			ctx := cmd.Context()
			session, d, err := opts.dispatcher(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			rows, err := d.Select(ctx, args[0], filter)
			if err != nil {
				return err
			}
			if rows == nil {
				rows = []types.Row{}
			}
			return writeJSON(cmd.OutOrStdout(), output, rows)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the rows to this file instead of stdout")
	return cmd
}

func newInsertCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insert TABLE FIELDS",
		Short: "Insert a row or a book, dvd or periodical",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(args[1], opts.stdin)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			session, d, err := opts.dispatcher(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			res, err := d.Insert(ctx, args[0], fields)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), "", writeResult{Affected: res.Affected, Fields: res.Fields})
		},
	}
}

func newUpdateCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update TABLE ID FIELDS",
		Short: "Update a row or a book, dvd or periodical by id",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(args[2], opts.stdin)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			session, d, err := opts.dispatcher(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			res, err := d.Update(ctx, args[0], args[1], fields)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), "", writeResult{Affected: res.Affected, Fields: res.Fields})
		},
	}
}

func newDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete TABLE FILTER",
		Short: "Delete the rows matching a non-empty filter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseFields(args[1], opts.stdin)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			session, d, err := opts.dispatcher(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			n, err := d.Delete(ctx, args[0], filter)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), "", writeResult{Affected: n})
		},
	}
}

var errUnhealthy = errors.New("database is unhealthy")

func newHealthCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Ping the database and print pool statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			session, err := opts.connect(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			status := session.HealthCheck(ctx)
			if err := writeJSON(cmd.OutOrStdout(), "", struct {
				*database.HealthStatus
				Stats *database.DBStats `json:"stats"`
			}{status, session.Manager.GetStats()}); err != nil {
				return err
			}
			if !status.Healthy {
				return errUnhealthy
			}
			return nil
		},
	}
}
