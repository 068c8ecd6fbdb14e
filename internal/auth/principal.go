package auth

import "wanderlog/model"

// Principal 已认证调用方。由中间件从 token claims 构造后显式传入核心操作，
// 核心层不读取任何全局会话状态。
type Principal struct {
	ID   uint64
	Role model.Role
}

// FromClaims builds a principal out of parsed token claims. The role is
// trusted as-is; unknown values are normalized to the regular user role so a
// stale token can never grant elevated access.
func FromClaims(c *Claims) Principal {
	role := model.Role(c.Role)
	if !role.Valid() {
		role = model.RoleUser
	}
	return Principal{ID: c.UserID, Role: role}
}
