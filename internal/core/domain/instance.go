package domain

// Library is one library's book list and throughput.
// TotalBooks always equals len(BookIDs) for generated libraries.
type Library struct {
	// ID is the 0-based creation index within the instance.
	ID int

	// BookIDs lists the books this library holds.
	BookIDs []int

	// SignupDays is the number of days the signup process takes.
	SignupDays int

	// BooksPerDay is how many books can be shipped each day after signup.
	BooksPerDay int

	// TotalBooks is the declared number of books.
	TotalBooks int
}

// Instance is one complete book-scanning problem definition.
type Instance struct {
	NumBooks     int
	NumLibraries int
	NumDays      int

	// BookScores is indexed by book id.
	BookScores []int

	// Libraries is ordered by library id.
	Libraries []Library
}

// TotalBookSlots returns the number of book ids across all libraries.
func (inst *Instance) TotalBookSlots() int {
	total := 0
	for i := range inst.Libraries {
		total += len(inst.Libraries[i].BookIDs)
	}
	return total
}

// LibrariesPerBook counts, for every book id, the number of distinct
// libraries that hold it. Out-of-range ids are ignored.
func (inst *Instance) LibrariesPerBook() []int {
	counts := make([]int, max(0, inst.NumBooks))
	for i := range inst.Libraries {
		seen := make(map[int]struct{}, len(inst.Libraries[i].BookIDs))
		for _, id := range inst.Libraries[i].BookIDs {
			if id < 0 || id >= inst.NumBooks {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			counts[id]++
		}
	}
	return counts
}

// DuplicatedBooks returns the number of books held by two or more libraries.
func (inst *Instance) DuplicatedBooks() int {
	n := 0
	for _, c := range inst.LibrariesPerBook() {
		if c >= 2 {
			n++
		}
	}
	return n
}
