package web

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1.0"/>
<title>Cat Left-Eye Locator</title>
<style>
body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; color: #1f2937; }
.alert { padding: .75rem 1rem; border-radius: 6px; margin: 1rem 0; }
.info { background: #e0f2fe; }
.success { background: #dcfce7; }
.error { background: #fee2e2; }
figure { margin: 1rem 0; }
figure img { width: 100%; height: auto; }
figcaption { text-align: center; color: #6b7280; font-size: .9rem; }
</style>
</head>
<body>
<h1>🐱 Cat Left-Eye Locator</h1>
<p>Upload a cat photo and I'll draw a box around its left eye and give you the coordinates.</p>
<form method="post" action="/" enctype="multipart/form-data">
<label for="image">Choose a cat image</label>
<input id="image" type="file" name="image" accept=".jpg,.jpeg,.png,image/jpeg,image/png" onchange="this.form.submit()"/>
<noscript><button type="submit">Upload</button></noscript>
</form>
{{if .OverlayURI}}
<figure>
<img src="{{.OverlayURI}}" alt="{{.Caption}}"/>
<figcaption>{{.Caption}}</figcaption>
</figure>
{{end}}
{{if .Message}}<div class="alert {{.Level}}">{{.Message}}</div>{{end}}
</body>
</html>
`))
