package types

// JSONMap is a free-form attribute bag stored as jsonb.
type JSONMap map[string]any

// StringList is a jsonb-serialized list of strings (photo URLs and the like).
type StringList []string
