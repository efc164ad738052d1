package memory

import (
	"fmt"
	"time"

	"tailorbook/pkg/domain"
)

type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

func (tx *transaction) newOrder(in OrderInput) Order {
	return Order{
		ID:           tx.store.newID(),
		OrderName:    in.OrderName,
		DateOrdered:  in.DateOrdered,
		DateDelivery: in.DateDelivery,
		Notes:        in.Notes,
		Status:       OrderStatusRegistered,
	}
}

// AddClient appends a new client with a fresh id. Initial orders are
// registered in input order.
func (tx *transaction) AddClient(in ClientInput) (Client, error) {
	c := Client{
		ID:           tx.store.newID(),
		FullName:     in.FullName,
		PhoneNumber:  in.PhoneNumber,
		Address:      in.Address,
		Measurements: in.Measurements,
		Orders:       make([]Order, 0, len(in.Orders)),
		CreatedAt:    tx.now,
		UpdatedAt:    tx.now,
	}
	if tx.state.clientIndex(c.ID) >= 0 {
		return Client{}, fmt.Errorf("client %q already exists", c.ID)
	}
	for _, o := range in.Orders {
		order := tx.newOrder(o)
		c.Orders = append(c.Orders, order)
		tx.recordChange(Change{Entity: domain.EntityOrder, Action: domain.ActionCreate, After: order})
	}
	tx.state.clients = append(tx.state.clients, cloneClient(c))
	tx.recordChange(Change{Entity: domain.EntityClient, Action: domain.ActionCreate, After: cloneClient(c)})
	return cloneClient(c), nil
}

// AddOrderToClient appends a registered order to the client's history.
func (tx *transaction) AddOrderToClient(clientID string, in OrderInput) (Order, error) {
	idx := tx.state.clientIndex(clientID)
	if idx < 0 {
		return Order{}, domain.ErrNotFound{Entity: domain.EntityClient, ID: clientID}
	}
	current := tx.state.clients[idx]
	order := tx.newOrder(in)
	if _, exists := current.FindOrder(order.ID); exists {
		return Order{}, fmt.Errorf("order %q already exists", order.ID)
	}
	current.Orders = append(current.Orders, order)
	current.UpdatedAt = tx.now
	tx.state.clients[idx] = current
	tx.recordChange(Change{Entity: domain.EntityOrder, Action: domain.ActionCreate, After: order})
	return order, nil
}

// UpdateOrderStatus replaces the status of one order. Any status may follow any other.
func (tx *transaction) UpdateOrderStatus(clientID, orderID string, status OrderStatus) (Order, error) {
	if !status.Valid() {
		return Order{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	idx := tx.state.clientIndex(clientID)
	if idx < 0 {
		return Order{}, domain.ErrNotFound{Entity: domain.EntityClient, ID: clientID}
	}
	current := tx.state.clients[idx]
	for i, o := range current.Orders {
		if o.ID != orderID {
			continue
		}
		before := o
		o.Status = status
		current.Orders[i] = o
		current.UpdatedAt = tx.now
		tx.state.clients[idx] = current
		tx.recordChange(Change{Entity: domain.EntityOrder, Action: domain.ActionUpdate, Before: before, After: o})
		return o, nil
	}
	return Order{}, domain.ErrNotFound{Entity: domain.EntityOrder, ID: orderID}
}

// UpdateClientMeasurements replaces the client's entire measurement record.
func (tx *transaction) UpdateClientMeasurements(clientID string, m Measurements) (Client, error) {
	idx := tx.state.clientIndex(clientID)
	if idx < 0 {
		return Client{}, domain.ErrNotFound{Entity: domain.EntityClient, ID: clientID}
	}
	current := tx.state.clients[idx]
	before := cloneClient(current)
	current.Measurements = m
	current.UpdatedAt = tx.now
	tx.state.clients[idx] = current
	tx.recordChange(Change{Entity: domain.EntityClient, Action: domain.ActionUpdate, Before: before, After: cloneClient(current)})
	return cloneClient(current), nil
}

// AddGalleryItem prepends a new item so galleries list most recent first.
func (tx *transaction) AddGalleryItem(g Gallery, in GalleryItemInput) (GalleryItem, error) {
	if !g.Valid() {
		return GalleryItem{}, fmt.Errorf("%w: %q", domain.ErrUnknownGallery, g)
	}
	item := GalleryItem{
		ID:          tx.store.newID(),
		ImageURL:    in.ImageURL,
		Tags:        append([]string(nil), in.Tags...),
		DateAdded:   domain.FormatDate(tx.now),
		Description: in.Description,
	}
	items := tx.state.gallery(g)
	for _, existing := range *items {
		if existing.ID == item.ID {
			return GalleryItem{}, fmt.Errorf("%s %q already exists", g.Entity(), item.ID)
		}
	}
	*items = append([]GalleryItem{cloneGalleryItem(item)}, *items...)
	tx.recordChange(Change{Entity: g.Entity(), Action: domain.ActionCreate, After: cloneGalleryItem(item)})
	return cloneGalleryItem(item), nil
}

// RemoveGalleryItem filters id out of the gallery. It reports false without
// error when the id is absent.
func (tx *transaction) RemoveGalleryItem(g Gallery, id string) (bool, error) {
	if !g.Valid() {
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownGallery, g)
	}
	items := tx.state.gallery(g)
	kept := make([]GalleryItem, 0, len(*items))
	var removed *GalleryItem
	for _, item := range *items {
		if item.ID == id && removed == nil {
			it := item
			removed = &it
			continue
		}
		kept = append(kept, item)
	}
	if removed == nil {
		return false, nil
	}
	*items = kept
	tx.recordChange(Change{Entity: g.Entity(), Action: domain.ActionDelete, Before: *removed})
	return true, nil
}

// UpdateCompanyInfo replaces the company profile.
func (tx *transaction) UpdateCompanyInfo(info CompanyInfo) (CompanyInfo, error) {
	before := tx.state.company
	tx.state.company = info
	tx.recordChange(Change{Entity: domain.EntityCompany, Action: domain.ActionUpdate, Before: before, After: info})
	return info, nil
}
