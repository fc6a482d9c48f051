package page

// Script bodies sent through driver.ExecuteScript.
const (
	fetchJSONScript      = `return fetch(arguments[0]).then(response => response.json());`
	scrollToBottomScript = `window.scrollTo(0, document.body.scrollHeight);`
	clickCSSScript       = `document.querySelector(arguments[0]).click();`
)
