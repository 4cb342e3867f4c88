package board

// Item is one unit of content moving through the pipeline.
//
// The synchronizer only interprets ID, ClientID, and Stage; the remaining
// fields are display attributes carried through untouched.
type Item struct {
	// ID uniquely identifies the item. IDs are stable across fetches.
	ID string

	// ClientID is the owning client (the board partition key). Items are
	// grouped per client and never cross partitions.
	ClientID string

	// Stage is the pipeline column the item currently occupies.
	Stage Stage

	// Display attributes, opaque to the synchronizer.
	Title      string
	DueDate    string
	Priority   string
	Platforms  []string
	Copy       string
	Caption    string
	Thumbnail  string
	Client     string
	AssignedTo string

	// UnreadComments is the number of unread comments on the item.
	UnreadComments int
}
