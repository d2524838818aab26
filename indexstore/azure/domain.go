package azure

type indexAction struct {
	Action        string    `json:"@search.action"`
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Source        string    `json:"source"`
	ChunkID       int       `json:"chunk_id"`
	ContentVector []float32 `json:"contentVector"`
}

type indexBatch struct {
	Value []indexAction `json:"value"`
}

type indexBatchResult struct {
	Value []indexItemResult `json:"value"`
}

type indexItemResult struct {
	Key          string `json:"key"`
	Status       bool   `json:"status"`
	ErrorMessage string `json:"errorMessage"`
	StatusCode   int    `json:"statusCode"`
}

type vectorQuery struct {
	Kind   string    `json:"kind"`
	Vector []float32 `json:"vector"`
	K      int       `json:"k"`
	Fields string    `json:"fields"`
}

type searchRequest struct {
	Search        string        `json:"search"`
	VectorQueries []vectorQuery `json:"vectorQueries"`
	Select        string        `json:"select"`
	Top           int           `json:"top"`
}

type searchHit struct {
	Score   float64 `json:"@search.score"`
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Title   string  `json:"title"`
	Source  string  `json:"source"`
}

type searchResponse struct {
	Value []searchHit `json:"value"`
}

type indexField struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Key        bool   `json:"key,omitempty"`
	Searchable bool   `json:"searchable,omitempty"`
	Filterable bool   `json:"filterable,omitempty"`
	Dimensions int    `json:"dimensions,omitempty"`
	Profile    string `json:"vectorSearchProfile,omitempty"`
}

type vectorAlgorithm struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type vectorProfile struct {
	Name      string `json:"name"`
	Algorithm string `json:"algorithm"`
}

type vectorSearch struct {
	Algorithms []vectorAlgorithm `json:"algorithms"`
	Profiles   []vectorProfile   `json:"profiles"`
}

type semanticField struct {
	FieldName string `json:"fieldName"`
}

type prioritizedFields struct {
	TitleField    semanticField   `json:"titleField"`
	ContentFields []semanticField `json:"prioritizedContentFields"`
}

type semanticConfiguration struct {
	Name              string            `json:"name"`
	PrioritizedFields prioritizedFields `json:"prioritizedFields"`
}

type semanticSearch struct {
	Configurations []semanticConfiguration `json:"configurations"`
}

type indexSchema struct {
	Name         string          `json:"name"`
	Fields       []indexField    `json:"fields"`
	VectorSearch *vectorSearch   `json:"vectorSearch,omitempty"`
	Semantic     *semanticSearch `json:"semantic,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
