package domain

// Permission categories
const (
	PermissionCategoryMember = "Member"
	PermissionCategoryGroup  = "Group"
	PermissionCategoryAdmin  = "Administration"
)

// Permission codes
const (
	PermViewMember        = "member:view"
	PermCreateMember      = "member:create"
	PermUpdateMember      = "member:update"
	PermViewMemberEmail   = "member:viewEmail"
	PermUpdateMemberEmail = "member:updateEmail"

	PermViewGroups   = "groups:viewGroups"
	PermCreateGroups = "groups:createGroups"
	PermUpdateGroups = "groups:updateGroups"
	PermDeleteGroups = "groups:deleteGroups"

	PermManageClients  = "admin:manageClients"
	PermRevokeSessions = "admin:revokeSessions"
)

// PermissionDetail describes a permission for admin tooling
type PermissionDetail struct {
	Code        string `json:"code"`
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PermissionDetails is the static catalog of every permission the system knows
var PermissionDetails = []PermissionDetail{
	{
		Code:        PermViewMember,
		Category:    PermissionCategoryMember,
		Name:        "View Member Profiles",
		Description: "View the profile of any member (excludes email)",
	},
	{
		Code:        PermCreateMember,
		Category:    PermissionCategoryMember,
		Name:        "Create Member Profiles",
		Description: "Create a member profile",
	},
	{
		Code:        PermUpdateMember,
		Category:    PermissionCategoryMember,
		Name:        "Update Member Profiles",
		Description: "Update a member profile (excludes email)",
	},
	{
		Code:        PermViewMemberEmail,
		Category:    PermissionCategoryMember,
		Name:        "View Member Email",
		Description: "View a member's email",
	},
	{
		Code:        PermUpdateMemberEmail,
		Category:    PermissionCategoryMember,
		Name:        "Update Member Email",
		Description: "Update a member's email",
	},
	{
		Code:        PermViewGroups,
		Category:    PermissionCategoryGroup,
		Name:        "View Groups",
		Description: "View all user groups",
	},
	{
		Code:        PermCreateGroups,
		Category:    PermissionCategoryGroup,
		Name:        "Create Groups",
		Description: "Create a new user group",
	},
	{
		Code:        PermUpdateGroups,
		Category:    PermissionCategoryGroup,
		Name:        "Edit Groups",
		Description: "Edit an existing user group",
	},
	{
		Code:        PermDeleteGroups,
		Category:    PermissionCategoryGroup,
		Name:        "Delete Groups",
		Description: "Delete an existing user group",
	},
	{
		Code:        PermManageClients,
		Category:    PermissionCategoryAdmin,
		Name:        "Manage OAuth2 Clients",
		Description: "Register, update and delete OAuth2 client applications",
	},
	{
		Code:        PermRevokeSessions,
		Category:    PermissionCategoryAdmin,
		Name:        "Revoke User Sessions",
		Description: "Revoke every active session a user holds",
	},
}
