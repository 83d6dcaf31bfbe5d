package data

// Row represents a single dataset row
// Key = column name, Value = cell value
type Row struct {
	Data map[string]interface{}
}

// NewRow creates a new Row with the given data
func NewRow(data map[string]interface{}) Row {
	if data == nil {
		data = make(map[string]interface{})
	}
	return Row{Data: data}
}

// Get returns the cell stored under column and whether it was present
func (r Row) Get(column string) (interface{}, bool) {
	v, ok := r.Data[column]
	return v, ok
}

// Set stores value under column
func (r Row) Set(column string, value interface{}) {
	r.Data[column] = value
}
