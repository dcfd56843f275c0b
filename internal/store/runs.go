package store

import (
	"database/sql"
	"fmt"
)

// RecordRun inserts r and its modules in a single transaction and sets r.ID.
func (s *Store) RecordRun(r *Run) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("record run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started_at, module_folder, tests_folder, modules_missing_file, missing_tests, total_functions)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.StartedAt, r.ModuleFolder, r.TestsFolder, r.ModulesMissingFile, r.MissingTests, r.TotalFunctions,
	)
	if err != nil {
		return 0, fmt.Errorf("record run: insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record run: last insert id: %w", err)
	}

	for _, m := range r.Modules {
		if err := insertModuleTx(tx, id, m); err != nil {
			return 0, fmt.Errorf("record run: module %q: %w", m.Module, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("record run: commit: %w", err)
	}
	r.ID = id
	return id, nil
}

func insertModuleTx(tx *sql.Tx, runID int64, m ModuleRecord) error {
	if _, err := tx.Exec(
		"INSERT INTO module_results (run_id, module, missing_file, missing_tests, function_count) VALUES (?, ?, ?, ?, ?)",
		runID, m.Module, m.MissingFile, m.MissingTests, m.FunctionCount,
	); err != nil {
		return err
	}
	for _, fn := range m.Missing {
		if _, err := tx.Exec(
			"INSERT INTO missing_cases (run_id, module, function) VALUES (?, ?, ?)",
			runID, m.Module, fn,
		); err != nil {
			return err
		}
	}
	return nil
}

// Runs returns up to limit runs, newest first, without their modules.
// A limit of zero or less returns every run.
func (s *Store) Runs(limit int) ([]*Run, error) {
	query := `SELECT id, started_at, module_folder, tests_folder, modules_missing_file, missing_tests, total_functions
		FROM runs ORDER BY started_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.ModuleFolder, &r.TestsFolder,
			&r.ModulesMissingFile, &r.MissingTests, &r.TotalFunctions); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunByID returns the run with its modules, or nil if it does not exist.
func (s *Store) RunByID(id int64) (*Run, error) {
	r := &Run{}
	err := s.db.QueryRow(
		`SELECT id, started_at, module_folder, tests_folder, modules_missing_file, missing_tests, total_functions
		 FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.StartedAt, &r.ModuleFolder, &r.TestsFolder,
		&r.ModulesMissingFile, &r.MissingTests, &r.TotalFunctions)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("run by id: %w", err)
	}

	modules, err := s.moduleRecords(id)
	if err != nil {
		return nil, err
	}
	r.Modules = modules
	return r, nil
}

func (s *Store) moduleRecords(runID int64) ([]ModuleRecord, error) {
	rows, err := s.db.Query(
		"SELECT module, missing_file, missing_tests, function_count FROM module_results WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("module records: %w", err)
	}
	defer rows.Close()

	var modules []ModuleRecord
	index := make(map[string]int)
	for rows.Next() {
		var m ModuleRecord
		if err := rows.Scan(&m.Module, &m.MissingFile, &m.MissingTests, &m.FunctionCount); err != nil {
			return nil, fmt.Errorf("scan module record: %w", err)
		}
		index[m.Module] = len(modules)
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cases, err := s.db.Query("SELECT module, function FROM missing_cases WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("missing cases: %w", err)
	}
	defer cases.Close()
	for cases.Next() {
		var module, fn string
		if err := cases.Scan(&module, &fn); err != nil {
			return nil, fmt.Errorf("scan missing case: %w", err)
		}
		if i, ok := index[module]; ok {
			modules[i].Missing = append(modules[i].Missing, fn)
		}
	}
	return modules, cases.Err()
}
