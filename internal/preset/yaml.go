package preset

import "gopkg.in/yaml.v3"

// Marshal encodes a snapshot to YAML for on-disk persistence (§6).
func Marshal(s Snapshot) ([]byte, error) {
	return yaml.Marshal(s)
}

// Unmarshal decodes a snapshot previously written by Marshal.
func Unmarshal(data []byte) (Snapshot, error) {
	var s Snapshot
	err := yaml.Unmarshal(data, &s)
	return s, err
}
