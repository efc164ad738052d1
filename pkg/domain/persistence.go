package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope. A failed operation returns an error and
// the enclosing transaction is discarded.
type Transaction interface {
	Snapshot() TransactionView
	AddClient(ClientInput) (Client, error)
	AddOrderToClient(clientID string, order OrderInput) (Order, error)
	UpdateOrderStatus(clientID, orderID string, status OrderStatus) (Order, error)
	UpdateClientMeasurements(clientID string, measurements Measurements) (Client, error)
	AddGalleryItem(gallery Gallery, item GalleryItemInput) (GalleryItem, error)
	RemoveGalleryItem(gallery Gallery, id string) (bool, error)
	UpdateCompanyInfo(info CompanyInfo) (CompanyInfo, error)
}

// TransactionView provides read-only access to snapshot data for rules and
// derived views. Returned values are copies.
type TransactionView interface {
	ListClients() []Client
	FindClient(id string) (Client, bool)
	FindOrder(clientID, orderID string) (Order, bool)
	ListGallery(gallery Gallery) []GalleryItem
	FindGalleryItem(gallery Gallery, id string) (GalleryItem, bool)
	CompanyInfo() CompanyInfo
}

// PersistentStore is a minimal abstraction over storage backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	ListClients() []Client
	GetClient(id string) (Client, bool)
	ListGallery(gallery Gallery) []GalleryItem
	CompanyInfo() CompanyInfo
}
