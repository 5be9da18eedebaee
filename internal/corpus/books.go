package corpus

// book is one entry of the predefined seed corpus. Year and CopiesSold stay
// strings: the source data mixes numbers with ranges and annotations.
type book struct {
	ID         int
	Title      string
	Author     string
	Language   string
	Year       string
	CopiesSold string
	Genre      string
	Gist       string
}

// Books returns the predefined seed corpus as ingestable records.
func Books() []Record {
	records := make([]Record, 0, len(books))
	for _, b := range books {
		records = append(records, b.record())
	}
	return records
}

// record converts a book into a Record with the canonical field order.
func (b book) record() Record {
	return Record{
		ID:     b.ID,
		Source: "predefined_books_list",
		Fields: []Field{
			{Name: "title", Value: b.Title},
			{Name: "author", Value: b.Author},
			{Name: "language", Value: b.Language},
			{Name: "year", Value: b.Year},
			{Name: "copies_sold", Value: b.CopiesSold},
			{Name: "genre", Value: b.Genre},
			{Name: "gist", Value: b.Gist},
		},
	}
}

var books = []book{
	// Harry Potter series
	{1, "Harry Potter and the Philosopher's Stone", "J.K. Rowling", "English", "1997", "120 million", "Fantasy",
		"A young orphan discovers he is a wizard and attends a magical school."},
	{2, "Harry Potter and the Chamber of Secrets", "J.K. Rowling", "English", "1998", "77 million", "Fantasy",
		"Harry returns to Hogwarts for his second year, where he uncovers a dark secret and faces a new threat."},
	{3, "Harry Potter and the Prisoner of Azkaban", "J.K. Rowling", "English", "1999", "65 million", "Fantasy",
		"Harry learns more about his past and confronts an escaped prisoner believed to be a dangerous supporter of Voldemort."},
	{4, "Harry Potter and the Goblet of Fire", "J.K. Rowling", "English", "2000", "65 million", "Fantasy",
		"Harry unexpectedly participates in the dangerous Triwizard Tournament, leading to a confrontation with Lord Voldemort."},
	{5, "Harry Potter and the Order of the Phoenix", "J.K. Rowling", "English", "2003", "65 million", "Fantasy",
		"Harry struggles with the Ministry of Magic's denial of Voldemort's return and forms a secret defense group."},
	{6, "Harry Potter and the Half-Blood Prince", "J.K. Rowling", "English", "2005", "65 million", "Fantasy",
		"Harry delves into Voldemort's past and prepares for the final battle, while suspecting Draco Malfoy of dark activities."},
	{7, "Harry Potter and the Deathly Hallows", "J.K. Rowling", "English", "2007", "65 million", "Fantasy",
		"Harry, Ron, and Hermione hunt for Horcruxes to destroy Voldemort, culminating in a final showdown at Hogwarts."},

	// Other English bestsellers
	{8, "The Lord of the Rings", "J.R.R. Tolkien", "English", "1954", "150 million", "Fantasy",
		"A hobbit inherits a powerful, evil ring and embarks on a quest to destroy it."},
	{9, "The Da Vinci Code", "Dan Brown", "English", "2003", "80 million", "Mystery Thriller",
		"A symbologist uncovers a conspiracy related to the Holy Grail while solving a murder."},
	{10, "To Kill a Mockingbird", "Harper Lee", "English", "1960", "40 million", "Southern Gothic, Bildungsroman",
		"A young girl in the American South witnesses racial injustice as her lawyer father defends a black man."},
	{11, "1984", "George Orwell", "English", "1949", "50 million", "Dystopian, Science Fiction",
		"A man living under a totalitarian regime struggles with oppression and surveillance."},
	{12, "The Great Gatsby", "F. Scott Fitzgerald", "English", "1925", "30 million", "Tragedy, Modernist",
		"A mysterious millionaire throws lavish parties in pursuit of his past love."},
	{13, "Pride and Prejudice", "Jane Austen", "English", "1813", "20 million", "Romance, Satire",
		"A witty young woman navigates societal expectations and romance in 19th-century England."},
	{14, "The Catcher in the Rye", "J.D. Salinger", "English", "1951", "65 million", "Coming-of-age, Realism",
		"A cynical teenager recounts his experiences after being expelled from prep school."},
	{15, "The Hobbit", "J.R.R. Tolkien", "English", "1937", "100 million", "Fantasy",
		"A reluctant hobbit joins a group of dwarves on a quest to reclaim their treasure from a dragon."},
	{16, "The Chronicles of Narnia: The Lion, the Witch and the Wardrobe", "C.S. Lewis", "English", "1950", "85 million", "Fantasy, Children's Literature",
		"Four siblings discover a magical world through a wardrobe and join a talking lion to fight an evil witch."},

	// Bengali classics and popular works
	{17, "Gitanjali", "Rabindranath Tagore", "Bengali", "1910", "Unknown (Nobel Prize in Literature)", "Poetry",
		"A collection of devotional poems expressing spiritual love and the human connection to the divine."},
	{18, "Pather Panchali (Song of the Road)", "Bibhutibhushan Bandyopadhyay", "Bengali", "1929", "Widely read, adapted into acclaimed film", "Social Drama, Bildungsroman",
		"The story of a young boy, Apu, growing up in a poor Brahmin family in rural Bengal."},
	{19, "Shesher Kabita (The Last Poem)", "Rabindranath Tagore", "Bengali", "1929", "Highly influential", "Novel, Romance",
		"A poignant love story exploring themes of intellectual connection, societal norms, and the nature of love."},
	{20, "Chokher Bali (Sand in the Eye)", "Rabindranath Tagore", "Bengali", "1903", "Classic Bengali novel", "Psychological Drama, Social Novel",
		"A complex tale of relationships, desire, and widowhood in colonial Bengal."},
	{21, "Aranyak (Of the Forest)", "Bibhutibhushan Bandyopadhyay", "Bengali", "1939", "Celebrated work", "Nature Writing, Philosophical Novel",
		"A man takes a job as a forest manager in Bihar and reflects on nature, civilization, and humanity."},
	{22, "Feluda Samagra (Complete Feluda)", "Satyajit Ray", "Bengali", "1965-1992 (series)", "Extremely popular detective series", "Detective Fiction, Adventure",
		"The adventures of Prodosh C. Mitter, a private investigator, solving mysteries across India."},
	{23, "Devdas", "Sarat Chandra Chattopadhyay", "Bengali", "1917", "Widely adapted and read", "Tragedy, Romance",
		"A tragic love story of a wealthy young man who descends into alcoholism due to lost love and societal pressures."},
	{24, "Hajar Churashir Maa (Mother of 1084)", "Mahasweta Devi", "Bengali", "1974", "Significant socio-political novel", "Political Fiction, Social Commentary",
		"A mother grapples with the death of her Naxalite son and the political turmoil of 1970s Bengal."},
	{25, "Aparajito (The Unvanquished)", "Bibhutibhushan Bandyopadhyay", "Bengali", "1932", "Sequel to Pather Panchali", "Social Drama, Bildungsroman",
		"Continues the story of Apu as he moves to the city, pursues education, and faces life's challenges."},
	{26, "Professor Shonku (Complete Adventures)", "Satyajit Ray", "Bengali", "1960s-1990s (series)", "Popular science fiction series", "Science Fiction, Adventure",
		"The diary entries of an eccentric Bengali inventor, Professor Shonku, detailing his fantastic inventions and global adventures."},
	{27, "Sonar Kella (The Golden Fortress)", "Satyajit Ray", "Bengali", "1971", "Very popular Feluda novel", "Detective Fiction, Adventure",
		"Feluda investigates a case involving a young boy who claims to remember his past life in a golden fortress in Rajasthan."},
	{28, "Joy Baba Felunath (The Elephant God)", "Satyajit Ray", "Bengali", "1976", "Popular Feluda novel", "Detective Fiction, Adventure",
		"Feluda travels to Varanasi to solve a case of theft of a valuable Ganesh statue."},
	{29, "Chander Pahar (Mountain of the Moon)", "Bibhutibhushan Bandyopadhyay", "Bengali", "1937", "Highly popular adventure novel", "Adventure Novel",
		"A young Bengali man seeks adventure in Africa, encountering dense forests, wild animals, and a legendary diamond mine."},
	{30, "Ichamati", "Bibhutibhushan Bandyopadhyay", "Bengali", "1950", "Acclaimed novel", "Social Drama, Historical",
		"Depicts life in rural Bengal along the Ichamati river, focusing on the lives of indigo planters and local communities during British rule."},
}
