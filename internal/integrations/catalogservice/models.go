package catalogservice

// Branch модель филиала из CatalogService
type Branch struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	IsActive bool   `json:"is_active"`
}

// Teacher модель преподавателя из CatalogService
type Teacher struct {
	ID       int64  `json:"id"`
	BranchID int64  `json:"branch_id"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

// ServiceType модель типа занятия из CatalogService
type ServiceType struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
