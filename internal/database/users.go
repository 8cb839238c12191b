package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotelbooking/internal/models"
)

const customerColumns = `id, full_name, email, phone, address, password_hash, created_at, updated_at`

func scanCustomer(row rowScanner) (*models.Customer, error) {
	var c models.Customer
	if err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Address, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *DB) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	c, err := scanCustomer(db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("customer %d", id))
	}
	return c, nil
}

func (db *DB) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	c, err := scanCustomer(db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE email = ?`, strings.TrimSpace(email)))
	if err != nil {
		return nil, mapError(err, "customer")
	}
	return c, nil
}

func (db *DB) CreateCustomer(ctx context.Context, c *models.Customer) error {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO customers (full_name, email, phone, address, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.FullName, strings.TrimSpace(c.Email), c.Phone, c.Address, c.PasswordHash, now, now,
	)
	if err != nil {
		return mapError(fmt.Errorf("failed to create customer: %w", err), "customer with this email")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (db *DB) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`UPDATE customers SET full_name = ?, phone = ?, address = ?, updated_at = ? WHERE id = ?`,
		c.FullName, c.Phone, c.Address, now, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if err := expectOneRow(result, "customer", c.ID); err != nil {
		return err
	}
	c.UpdatedAt = now
	return nil
}

func (db *DB) UpdateCustomerPassword(ctx context.Context, id int64, passwordHash string) error {
	return updatePassword(ctx, db, "customers", "customer", id, passwordHash)
}

func (db *DB) DeleteCustomer(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return expectOneRow(result, "customer", id)
}

func (db *DB) ListCustomers(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int, error) {
	whereSQL := ""
	var args []any
	if strings.TrimSpace(filter.Query) != "" {
		whereSQL = ` WHERE full_name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\'`
		p := likePattern(filter.Query)
		args = append(args, p, p, p)
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	page := filter.Pagination.Normalize(0, 0)
	rows, err := db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers`+whereSQL+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, page.PageSize, page.Offset())...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

const employeeColumns = `id, full_name, role, email, phone, password_hash, created_at, updated_at`

func scanEmployee(row rowScanner) (*models.Employee, error) {
	var e models.Employee
	if err := row.Scan(&e.ID, &e.FullName, &e.Role, &e.Email, &e.Phone, &e.PasswordHash, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (db *DB) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	e, err := scanEmployee(db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("employee %d", id))
	}
	return e, nil
}

func (db *DB) GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	e, err := scanEmployee(db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email = ?`, strings.TrimSpace(email)))
	if err != nil {
		return nil, mapError(err, "employee")
	}
	return e, nil
}

func (db *DB) CreateEmployee(ctx context.Context, e *models.Employee) error {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO employees (full_name, role, email, phone, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.FullName, e.Role, strings.TrimSpace(e.Email), e.Phone, e.PasswordHash, now, now,
	)
	if err != nil {
		return mapError(fmt.Errorf("failed to create employee: %w", err), "employee with this email")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

// UpdateEmployee rewrites the profile columns. The password is changed
// only through UpdateEmployeePassword.
func (db *DB) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`UPDATE employees SET full_name = ?, role = ?, email = ?, phone = ?, updated_at = ? WHERE id = ?`,
		e.FullName, e.Role, strings.TrimSpace(e.Email), e.Phone, now, e.ID,
	)
	if err != nil {
		return mapError(fmt.Errorf("failed to update employee: %w", err), "employee with this email")
	}
	if err := expectOneRow(result, "employee", e.ID); err != nil {
		return err
	}
	e.UpdatedAt = now
	return nil
}

func (db *DB) UpdateEmployeePassword(ctx context.Context, id int64, passwordHash string) error {
	return updatePassword(ctx, db, "employees", "employee", id, passwordHash)
}

func (db *DB) DeleteEmployee(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return expectOneRow(result, "employee", id)
}

// table is one of the two account tables, never caller input.
func updatePassword(ctx context.Context, ex execer, table, what string, id int64, passwordHash string) error {
	result, err := ex.ExecContext(ctx,
		`UPDATE `+table+` SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update %s password: %w", what, err)
	}
	return expectOneRow(result, what, id)
}

func (db *DB) ListEmployees(ctx context.Context) ([]*models.Employee, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY role, full_name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
