package view

import "notesync-web/internal/domain"

var catalog = map[string]map[string]string{
	domain.LangEnglish: {
		"app.title":             "Note Sync",
		"nav.vaults":            "Vaults",
		"nav.settings":          "Settings",
		"nav.logout":            "Sign out",
		"login.title":           "Sign in",
		"login.credentials":     "Username or email",
		"login.password":        "Password",
		"login.submit":          "Sign in",
		"login.failed":          "Sign in failed",
		"vaults.title":          "Vaults",
		"vaults.empty":          "No vaults yet",
		"vaults.notes":          "notes",
		"vaults.files":          "files",
		"notes.title":           "Notes",
		"notes.search":          "Search notes",
		"notes.empty":           "No notes",
		"notes.recycle":         "Recycle bin",
		"notes.files":           "Attachments",
		"note.history":          "History",
		"note.version":          "Version",
		"files.title":           "Attachments",
		"files.empty":           "No attachments",
		"recycle.title":         "Recycle bin",
		"recycle.restore":       "Restore",
		"recycle.delete":        "Delete forever",
		"recycle.empty":         "The recycle bin is empty",
		"recycle.restored":      "Note restored",
		"recycle.deleted":       "Note deleted",
		"pager.prev":            "Previous",
		"pager.next":            "Next",
		"pager.page":            "Page",
		"history.title":         "History",
		"history.empty":         "No history",
		"history.changedOnly":   "Changed lines only",
		"history.showOriginal":  "Show original",
		"history.restore":       "Restore this version",
		"history.restoring":     "Restoring…",
		"history.restored":      "Version restored",
		"history.close":         "Close",
		"history.copy":          "Copy",
		"history.copied":        "Copied",
		"history.select":        "Select a version to see its changes",
		"history.device":        "Device",
		"settings.title":        "Server settings",
		"settings.save":         "Save",
		"settings.saved":        "Settings saved",
		"settings.register":     "Allow registration",
		"settings.keepVersions": "History versions to keep",
		"settings.saveDelay":    "History save delay",
		"settings.retention":    "Recycle bin retention",
		"settings.fontSet":      "Font set",
		"error.title":           "Something went wrong",
		"error.network":         "The sync server could not be reached",
		"error.forbidden":       "You do not have access to this page",
		"error.notFound":        "Not found",
	},
	domain.LangChinese: {
		"app.title":             "笔记同步",
		"nav.vaults":            "仓库",
		"nav.settings":          "设置",
		"nav.logout":            "退出",
		"login.title":           "登录",
		"login.credentials":     "用户名或邮箱",
		"login.password":        "密码",
		"login.submit":          "登录",
		"login.failed":          "登录失败",
		"vaults.title":          "仓库",
		"vaults.empty":          "暂无仓库",
		"vaults.notes":          "篇笔记",
		"vaults.files":          "个附件",
		"notes.title":           "笔记",
		"notes.search":          "搜索笔记",
		"notes.empty":           "暂无笔记",
		"notes.recycle":         "回收站",
		"notes.files":           "附件",
		"note.history":          "历史",
		"note.version":          "版本",
		"files.title":           "附件",
		"files.empty":           "暂无附件",
		"recycle.title":         "回收站",
		"recycle.restore":       "恢复",
		"recycle.delete":        "彻底删除",
		"recycle.empty":         "回收站为空",
		"recycle.restored":      "笔记已恢复",
		"recycle.deleted":       "笔记已删除",
		"pager.prev":            "上一页",
		"pager.next":            "下一页",
		"pager.page":            "页",
		"history.title":         "历史",
		"history.empty":         "暂无历史",
		"history.changedOnly":   "仅显示改动",
		"history.showOriginal":  "显示原文",
		"history.restore":       "恢复到此版本",
		"history.restoring":     "恢复中…",
		"history.restored":      "已恢复该版本",
		"history.close":         "关闭",
		"history.copy":          "复制",
		"history.copied":        "已复制",
		"history.select":        "选择一个版本查看改动",
		"history.device":        "设备",
		"settings.title":        "服务器设置",
		"settings.save":         "保存",
		"settings.saved":        "设置已保存",
		"settings.register":     "允许注册",
		"settings.keepVersions": "保留的历史版本数",
		"settings.saveDelay":    "历史保存延迟",
		"settings.retention":    "回收站保留时间",
		"settings.fontSet":      "字体",
		"error.title":           "出错了",
		"error.network":         "无法连接同步服务器",
		"error.forbidden":       "你没有访问此页面的权限",
		"error.notFound":        "未找到",
	},
}

func normalizeLang(lang string) string {
	if _, ok := catalog[lang]; ok {
		return lang
	}
	return domain.LangEnglish
}

// Translate looks key up in lang, falling back to English and then to the
// key itself.
func Translate(lang, key string) string {
	if msg, ok := catalog[normalizeLang(lang)][key]; ok {
		return msg
	}
	if msg, ok := catalog[domain.LangEnglish][key]; ok {
		return msg
	}
	return key
}
