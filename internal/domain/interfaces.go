package domain

import "context"

// EmployeeAPI defines the remote operations on employee records.
type EmployeeAPI interface {
	List(ctx context.Context, params ListParams) (*EmployeePage, error)
	Get(ctx context.Context, id string) (*Employee, error)
	Create(ctx context.Context, input EmployeeInput) (*Employee, error)
	Update(ctx context.Context, id string, input EmployeeInput) (*Employee, error)
	Remove(ctx context.Context, id string) error
}
