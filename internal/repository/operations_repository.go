package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weldworks/workshop-api/internal/domain"
)

type operationsRepository struct {
	pool *pgxpool.Pool
}

// NewOperationsRepository wires a repository backed by pgxpool.
func NewOperationsRepository(pool *pgxpool.Pool) OperationsRepository {
	return &operationsRepository{pool: pool}
}

func (r *operationsRepository) CreateWorkOrder(ctx context.Context, order domain.WorkOrder) (domain.WorkOrder, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = "Pending"
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO work_orders (id, order_id, client, description, status, due_date, assigned_welder)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.OrderID, order.Client, order.Description, order.Status, order.DueDate, order.AssignedWelder,
	)
	if err != nil {
		return domain.WorkOrder{}, fmt.Errorf("failed to create work order: %w", err)
	}

	return order, nil
}

func (r *operationsRepository) ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, order_id, client, description, status, due_date, assigned_welder
		 FROM work_orders ORDER BY order_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.WorkOrder{}
	for rows.Next() {
		var order domain.WorkOrder
		if scanErr := rows.Scan(&order.ID, &order.OrderID, &order.Client, &order.Description, &order.Status, &order.DueDate, &order.AssignedWelder); scanErr != nil {
			return nil, fmt.Errorf("failed to scan work order: %w", scanErr)
		}
		orders = append(orders, order)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate work orders: %w", rowsErr)
	}

	return orders, nil
}

func (r *operationsRepository) CreateEquipment(ctx context.Context, equipment domain.Equipment) (domain.Equipment, error) {
	if equipment.ID == uuid.Nil {
		equipment.ID = uuid.New()
	}
	if equipment.Status == "" {
		equipment.Status = "Operational"
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO equipment (id, equipment_id, name, status, last_service_date)
		 VALUES ($1, $2, $3, $4, $5)`,
		equipment.ID, equipment.EquipmentID, equipment.Name, equipment.Status, equipment.LastServiceDate,
	)
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("failed to create equipment: %w", err)
	}

	return equipment, nil
}

func (r *operationsRepository) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, equipment_id, name, status, last_service_date
		 FROM equipment ORDER BY equipment_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	defer rows.Close()

	items := []domain.Equipment{}
	for rows.Next() {
		var equipment domain.Equipment
		if scanErr := rows.Scan(&equipment.ID, &equipment.EquipmentID, &equipment.Name, &equipment.Status, &equipment.LastServiceDate); scanErr != nil {
			return nil, fmt.Errorf("failed to scan equipment: %w", scanErr)
		}
		items = append(items, equipment)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate equipment: %w", rowsErr)
	}

	return items, nil
}

func (r *operationsRepository) CreateInspection(ctx context.Context, inspection domain.Inspection) (domain.Inspection, error) {
	if inspection.ID == uuid.Nil {
		inspection.ID = uuid.New()
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO inspections (id, inspection_id, order_id, inspector, result, defect_type)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		inspection.ID, inspection.InspectionID, inspection.OrderID, inspection.Inspector, inspection.Result, inspection.DefectType,
	)
	if err != nil {
		return domain.Inspection{}, fmt.Errorf("failed to create inspection: %w", err)
	}

	return inspection, nil
}

func (r *operationsRepository) ListInspections(ctx context.Context) ([]domain.Inspection, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, inspection_id, order_id, inspector, result, defect_type
		 FROM inspections ORDER BY inspection_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	defer rows.Close()

	inspections := []domain.Inspection{}
	for rows.Next() {
		var inspection domain.Inspection
		if scanErr := rows.Scan(&inspection.ID, &inspection.InspectionID, &inspection.OrderID, &inspection.Inspector, &inspection.Result, &inspection.DefectType); scanErr != nil {
			return nil, fmt.Errorf("failed to scan inspection: %w", scanErr)
		}
		inspections = append(inspections, inspection)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate inspections: %w", rowsErr)
	}

	return inspections, nil
}

func (r *operationsRepository) CreateEmployee(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO employees (id, employee_id, name, role, certification_expiry)
		 VALUES ($1, $2, $3, $4, $5)`,
		employee.ID, employee.EmployeeID, employee.Name, employee.Role, employee.CertificationExpiry,
	)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return employee, nil
}

func (r *operationsRepository) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, employee_id, name, role, certification_expiry
		 FROM employees ORDER BY employee_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		var employee domain.Employee
		if scanErr := rows.Scan(&employee.ID, &employee.EmployeeID, &employee.Name, &employee.Role, &employee.CertificationExpiry); scanErr != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", scanErr)
		}
		employees = append(employees, employee)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", rowsErr)
	}

	return employees, nil
}

func (r *operationsRepository) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO items (id, item_id, item_name, quantity, unit, reorder_level)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.ItemID, item.ItemName, item.Quantity, item.Unit, item.ReorderLevel,
	)
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to create item: %w", err)
	}

	return item, nil
}

func (r *operationsRepository) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, item_id, item_name, quantity, unit, reorder_level
		 FROM items ORDER BY item_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		var item domain.Item
		if scanErr := rows.Scan(&item.ID, &item.ItemID, &item.ItemName, &item.Quantity, &item.Unit, &item.ReorderLevel); scanErr != nil {
			return nil, fmt.Errorf("failed to scan item: %w", scanErr)
		}
		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", rowsErr)
	}

	return items, nil
}
