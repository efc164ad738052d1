package memory

// memoryState is the full committed state. Transactions operate on a deep
// clone and the clone replaces the committed value on commit, so values
// handed to readers are never mutated afterwards.
type memoryState struct {
	clients      []Client
	designs      []GalleryItem
	inspirations []GalleryItem
	company      CompanyInfo
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Clients      []Client      `json:"clients"`
	Designs      []GalleryItem `json:"designs"`
	Inspirations []GalleryItem `json:"inspirations"`
	Company      CompanyInfo   `json:"company"`
}

func newMemoryState() memoryState {
	return memoryState{
		clients:      []Client{},
		designs:      []GalleryItem{},
		inspirations: []GalleryItem{},
	}
}

func (s memoryState) clone() memoryState {
	return memoryState{
		clients:      cloneClients(s.clients),
		designs:      cloneGalleryItems(s.designs),
		inspirations: cloneGalleryItems(s.inspirations),
		company:      s.company,
	}
}

func (s *memoryState) gallery(g Gallery) *[]GalleryItem {
	if g == GalleryInspirations {
		return &s.inspirations
	}
	return &s.designs
}

func (s memoryState) clientIndex(id string) int {
	for i, c := range s.clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func cloneClient(c Client) Client {
	cp := c
	cp.Orders = append(make([]Order, 0, len(c.Orders)), c.Orders...)
	return cp
}

func cloneClients(in []Client) []Client {
	out := make([]Client, 0, len(in))
	for _, c := range in {
		out = append(out, cloneClient(c))
	}
	return out
}

func cloneGalleryItem(g GalleryItem) GalleryItem {
	cp := g
	cp.Tags = append(make([]string, 0, len(g.Tags)), g.Tags...)
	return cp
}

func cloneGalleryItems(in []GalleryItem) []GalleryItem {
	out := make([]GalleryItem, 0, len(in))
	for _, g := range in {
		out = append(out, cloneGalleryItem(g))
	}
	return out
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	cloned := state.clone()
	return Snapshot{
		Clients:      cloned.clients,
		Designs:      cloned.designs,
		Inspirations: cloned.inspirations,
		Company:      cloned.company,
	}
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	return memoryState{
		clients:      cloneClients(s.Clients),
		designs:      cloneGalleryItems(s.Designs),
		inspirations: cloneGalleryItems(s.Inspirations),
		company:      s.Company,
	}
}

// migrateSnapshot normalizes snapshots written by older builds or by hand:
// missing collections become empty and orders without a status are registered.
func migrateSnapshot(snapshot Snapshot) Snapshot {
	if snapshot.Clients == nil {
		snapshot.Clients = []Client{}
	}
	if snapshot.Designs == nil {
		snapshot.Designs = []GalleryItem{}
	}
	if snapshot.Inspirations == nil {
		snapshot.Inspirations = []GalleryItem{}
	}
	clients := make([]Client, 0, len(snapshot.Clients))
	for _, c := range snapshot.Clients {
		c = cloneClient(c)
		for i := range c.Orders {
			if c.Orders[i].Status == "" {
				c.Orders[i].Status = OrderStatusRegistered
			}
		}
		clients = append(clients, c)
	}
	snapshot.Clients = clients
	return snapshot
}
