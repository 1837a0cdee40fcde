package wintoast

// Values reach the scripts through these environment variables and are
// never spliced into script text.
const (
	envAppID = "USERNOTIFY_TOAST_APP_ID"
	envXML   = "USERNOTIFY_TOAST_XML"
	envTag   = "USERNOTIFY_TOAST_TAG"
	envGroup = "USERNOTIFY_TOAST_GROUP"
)

const winrtPreamble = `[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
`

// script is a PowerShell program and the environment it reads its
// arguments from
type script struct {
	text string
	env  map[string]string
}

// showScript shows xml under appID with the given tag and group
func showScript(appID, xml, tag, group string) script {
	return script{
		text: winrtPreamble + `$xml = New-Object Windows.Data.Xml.Dom.XmlDocument
$xml.LoadXml($env:` + envXML + `)
$toast = [Windows.UI.Notifications.ToastNotification]::new($xml)
$toast.Tag = $env:` + envTag + `
$toast.Group = $env:` + envGroup + `
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier($env:` + envAppID + `).Show($toast)
`,
		env: map[string]string{envAppID: appID, envXML: xml, envTag: tag, envGroup: group},
	}
}

// historyScript prints the tag of every toast appID has in the action center
func historyScript(appID string) script {
	return script{
		text: winrtPreamble + "[Windows.UI.Notifications.ToastNotificationManager]::History.GetHistory($env:" + envAppID + ") | ForEach-Object { $_.Tag }\n",
		env:  map[string]string{envAppID: appID},
	}
}

// clearScript clears the history of appID, or of the calling process when
// appID is empty
func clearScript(appID string) script {
	if appID == "" {
		return script{text: winrtPreamble + "[Windows.UI.Notifications.ToastNotificationManager]::History.Clear()\n"}
	}
	return script{
		text: winrtPreamble + "[Windows.UI.Notifications.ToastNotificationManager]::History.Clear($env:" + envAppID + ")\n",
		env:  map[string]string{envAppID: appID},
	}
}

// removeScript removes the toast with tag and group shown under appID
func removeScript(tag, group, appID string) script {
	return script{
		text: winrtPreamble + "[Windows.UI.Notifications.ToastNotificationManager]::History.Remove($env:" + envTag + ", $env:" + envGroup + ", $env:" + envAppID + ")\n",
		env:  map[string]string{envTag: tag, envGroup: group, envAppID: appID},
	}
}
