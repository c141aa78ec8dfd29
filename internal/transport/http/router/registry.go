package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// 模块可实现其中一个或两个接口：
// APIModule 挂在公共分组，AuthedModule 挂在 JWT 鉴权分组
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type AuthedModule interface{ MountAuthed(*gin.RouterGroup) }

// 可选：控制挂载顺序（数值越小越先挂），不实现则默认 100
type prioritizer interface{ Priority() int }

var (
	mu         sync.RWMutex
	apiMods    []APIModule
	authedMods []AuthedModule
)

// Register 按类型断言分发到对应列表
func Register(mod any) {
	mu.Lock()
	defer mu.Unlock()
	if m, ok := mod.(APIModule); ok {
		apiMods = append(apiMods, m)
	}
	if m, ok := mod.(AuthedModule); ok {
		authedMods = append(authedMods, m)
	}
}

// Reset 清空注册表（测试用）
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	apiMods = nil
	authedMods = nil
}

func MountAllAPI(api *gin.RouterGroup) {
	mu.RLock()
	mods := append([]APIModule(nil), apiMods...)
	mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(api)
	}
}

func MountAllAuthed(authed *gin.RouterGroup) {
	mu.RLock()
	mods := append([]AuthedModule(nil), authedMods...)
	mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAuthed(authed)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
