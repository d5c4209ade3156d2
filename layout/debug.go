package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteDebugJSON 将适配后的场景输出为 JSON，便于查看每个元素的最终字号与分行。
func WriteDebugJSON(scene *Scene, path string) error {
	if scene == nil {
		return nil
	}
	data, err := json.MarshalIndent(scene, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化场景失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
