package site

// sourceTemplate is the Go html/template for the highlighted source view.
const sourceTemplate = `<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>livepad source</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 960px; padding: 0 1rem; }
    [data-theme="dark"] body { background: #1e1e1e; color: #ddd; }
    pre { padding: 1rem; border-radius: 6px; overflow-x: auto; }
    h2 { font-family: ui-monospace, monospace; font-size: 1rem; }
  </style>
</head>
<body>
{{.Content}}
</body>
</html>
`

// indexTemplate is the Go html/template for the editor page.
const indexTemplate = `<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>livepad</title>
  <style>
    :root { --bg: #f5f5f5; --fg: #222; --panel: #fff; --border: #ddd; --accent: #2f6fde; }
    [data-theme="dark"] { --bg: #1b1d22; --fg: #e6e6e6; --panel: #262930; --border: #3a3e47; --accent: #6fa0ff; }
    * { box-sizing: border-box; }
    body { margin: 0; height: 100vh; display: flex; flex-direction: column; background: var(--bg); color: var(--fg); font-family: system-ui, sans-serif; }
    header { display: flex; gap: .5rem; align-items: center; padding: .5rem 1rem; border-bottom: 1px solid var(--border); }
    header h1 { font-size: 1.1rem; margin: 0 auto 0 0; }
    button, select { background: var(--panel); color: var(--fg); border: 1px solid var(--border); border-radius: 4px; padding: .3rem .6rem; cursor: pointer; }
    main { flex: 1; display: flex; min-height: 0; }
    main.view-bottom-preview { flex-direction: column; }
    main.view-left-preview { flex-direction: row-reverse; }
    main.view-right-preview { flex-direction: row; }
    .editors { flex: 3; display: flex; gap: .5rem; padding: .5rem; min-height: 0; min-width: 0; }
    main.view-left-preview .editors, main.view-right-preview .editors { flex-direction: column; }
    .editor { flex: 1; display: flex; flex-direction: column; min-height: 0; }
    .editor-bar { display: flex; gap: .3rem; align-items: center; padding-bottom: .3rem; }
    .editor-bar strong { margin-right: auto; }
    textarea { flex: 1; resize: none; font-family: ui-monospace, monospace; font-size: 13px; background: var(--panel); color: var(--fg); border: 1px solid var(--border); border-radius: 4px; padding: .5rem; tab-size: 4; }
    .preview-container { flex: 7; padding: .5rem; min-height: 0; min-width: 0; }
    iframe { width: 100%; height: 100%; border: 1px solid var(--border); border-radius: 4px; background: #fff; }
    #notice { position: fixed; top: 1rem; left: 50%; transform: translateX(-50%); padding: .6rem 1.2rem; border-radius: 4px; background: #2e7d32; color: #fff; opacity: 0; transition: opacity .1s; pointer-events: none; }
    #notice.error { background: #c62828; }
    #notice.show { opacity: 1; }
  </style>
</head>
<body>
  <header>
    <h1>livepad</h1>
    <select id="layout">
      {{range .Layouts}}<option value="{{.}}"{{if eq . $.Layout}} selected{{end}}>{{.}}</option>{{end}}
    </select>
    <button id="theme-toggle">Theme</button>
    <button id="open-preview">Open in new tab</button>
    <a href="/source" target="_blank"><button>Source</button></a>
    <button id="download">Download</button>
    <button id="clear-all">Clear all</button>
  </header>
  <main class="{{.LayoutClass}}">
    <section class="editors">
      {{range .Editors}}
      <div class="editor">
        <div class="editor-bar">
          <strong>{{.Label}}</strong>
          <button data-copy="{{.Name}}">Copy</button>
          <button data-delete="{{.Name}}">Delete</button>
        </div>
        <textarea id="{{.Name}}-editor" data-fragment="{{.Name}}" spellcheck="false">{{.Text}}</textarea>
      </div>
      {{end}}
    </section>
    <section class="preview-container">
      <iframe id="preview" sandbox="allow-scripts allow-modals" src="/preview"></iframe>
    </section>
  </main>
  <div id="notice"></div>
<script>
(function () {
  const main = document.querySelector("main");
  const iframe = document.getElementById("preview");
  const noticeEl = document.getElementById("notice");
  let noticeTimer = null;
  let ws = null;

  function showNotice(n) {
    noticeEl.textContent = n.message;
    noticeEl.classList.toggle("error", n.error);
    noticeEl.classList.add("show");
    clearTimeout(noticeTimer);
    noticeTimer = setTimeout(() => noticeEl.classList.remove("show"), n.ttl_ms || {{.NoticeMS}});
  }

  function apply(msg) {
    switch (msg.type) {
    case "render": iframe.srcdoc = msg.document; break;
    case "theme": document.documentElement.setAttribute("data-theme", msg.theme); break;
    case "layout":
      main.className = msg.class;
      document.getElementById("layout").value = msg.layout;
      break;
    case "notice": showNotice(msg.notice); break;
    }
  }

  function connect() {
    ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
    ws.onmessage = (e) => apply(JSON.parse(e.data));
    ws.onclose = () => setTimeout(connect, 1000);
  }
  connect();

  function send(msg) {
    if (ws && ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(msg));
  }

  async function call(method, url, body) {
    const res = await fetch(url, {
      method: method,
      headers: body ? { "Content-Type": "application/json" } : {},
      body: body ? JSON.stringify(body) : undefined,
    });
    return res;
  }

  document.querySelectorAll("textarea[data-fragment]").forEach((ta) => {
    ta.addEventListener("input", () => send({ type: "edit", fragment: ta.dataset.fragment, text: ta.value }));
    ta.addEventListener("keydown", (e) => {
      if (e.key !== "Tab") return;
      e.preventDefault();
      const start = ta.selectionStart;
      ta.setRangeText("    ", start, ta.selectionEnd, "end");
      ta.dispatchEvent(new Event("input"));
    });
  });

  document.querySelectorAll("[data-copy]").forEach((b) =>
    b.addEventListener("click", () => call("POST", "/api/fragments/" + b.dataset.copy + "/copy")));

  document.querySelectorAll("[data-delete]").forEach((b) =>
    b.addEventListener("click", async () => {
      const name = b.dataset.delete;
      const ta = document.getElementById(name + "-editor");
      if (ta.value.trim() !== "" && !confirm("Are you sure you want to delete all " + name.toUpperCase() + " code?")) return;
      const res = await call("DELETE", "/api/fragments/" + name);
      if (res.ok) ta.value = "";
    }));

  document.getElementById("layout").addEventListener("change", (e) =>
    send({ type: "preference", name: "layout", value: e.target.value }));

  document.getElementById("theme-toggle").addEventListener("click", () =>
    call("POST", "/api/preferences/theme/toggle"));

  document.getElementById("open-preview").addEventListener("click", async () => {
    const res = await call("POST", "/api/preview/detach");
    if (!res.ok) return;
    const body = await res.json();
    window.open(body.url, "_blank");
  });

  document.getElementById("download").addEventListener("click", async () => {
    const res = await call("GET", "/api/export");
    if (!res.ok) return;
    const blob = await res.blob();
    const a = document.createElement("a");
    a.href = URL.createObjectURL(blob);
    a.download = "{{.ExportName}}";
    document.body.appendChild(a);
    a.click();
    a.remove();
  });

  document.getElementById("clear-all").addEventListener("click", async () => {
    const res = await call("POST", "/api/clear");
    if (res.ok) document.querySelectorAll("textarea[data-fragment]").forEach((ta) => (ta.value = ""));
  });
})();
</script>
</body>
</html>
`
