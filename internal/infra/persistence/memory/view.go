package memory

// transactionView exposes a read-only snapshot of the transactional state to
// rules and callers of View.
type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

func (v transactionView) ListClients() []Client {
	return cloneClients(v.state.clients)
}

func (v transactionView) FindClient(id string) (Client, bool) {
	idx := v.state.clientIndex(id)
	if idx < 0 {
		return Client{}, false
	}
	return cloneClient(v.state.clients[idx]), true
}

func (v transactionView) FindOrder(clientID, orderID string) (Order, bool) {
	idx := v.state.clientIndex(clientID)
	if idx < 0 {
		return Order{}, false
	}
	return v.state.clients[idx].FindOrder(orderID)
}

func (v transactionView) ListGallery(g Gallery) []GalleryItem {
	if !g.Valid() {
		return []GalleryItem{}
	}
	return cloneGalleryItems(*v.state.gallery(g))
}

func (v transactionView) FindGalleryItem(g Gallery, id string) (GalleryItem, bool) {
	if !g.Valid() {
		return GalleryItem{}, false
	}
	for _, item := range *v.state.gallery(g) {
		if item.ID == id {
			return cloneGalleryItem(item), true
		}
	}
	return GalleryItem{}, false
}

func (v transactionView) CompanyInfo() CompanyInfo {
	return v.state.company
}
