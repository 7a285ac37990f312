package browser

// snapshotScript walks the page's interactive elements, infers a semantic
// role and an accessible name for each, tags the live node with
// data-ref-id="ref-<n>" so a later action can resolve exactly the node that
// was observed, and returns {role, name, ref_id} records for the visible,
// enabled ones. The counter restarts at 1 on every capture, so ref ids are
// only meaningful against the snapshot that produced them.
//
// A failure on one element must not lose the rest of the page, so
// per-element errors are counted and skipped; only a failure of the walk
// itself is reported as an error.
const snapshotScript = `() => {
    const snapshotResult = [];
    let refIdCounter = 1;
    let errorCount = 0;

    try {
        const interactiveElements = document.querySelectorAll(
            'button, a, input, select, textarea, ' +
            '[role="button"], [role="link"], [role="checkbox"], [role="radio"], ' +
            '[role="tab"], [role="combobox"], [role="textbox"], [role="searchbox"]'
        );

        interactiveElements.forEach(element => {
            try {
                let role = element.getAttribute('role');
                if (!role) {
                    switch (element.tagName.toLowerCase()) {
                        case 'button': role = 'button'; break;
                        case 'a': role = 'link'; break;
                        case 'input':
                            switch (element.type) {
                                case 'text': role = 'textbox'; break;
                                case 'checkbox': role = 'checkbox'; break;
                                case 'radio': role = 'radio'; break;
                                case 'search': role = 'searchbox'; break;
                                default: role = element.type; break;
                            }
                            break;
                        case 'select': role = 'combobox'; break;
                        case 'textarea': role = 'textbox'; break;
                        default: role = 'unknown'; break;
                    }
                }

                let name = '';
                if (element.hasAttribute('aria-label')) {
                    name = element.getAttribute('aria-label');
                } else if (element.hasAttribute('aria-labelledby')) {
                    const labelElement = document.getElementById(element.getAttribute('aria-labelledby'));
                    if (labelElement) {
                        name = labelElement.textContent.trim();
                    }
                } else if (element.hasAttribute('placeholder')) {
                    name = element.getAttribute('placeholder');
                } else if (element.hasAttribute('name')) {
                    name = element.getAttribute('name');
                } else if (element.hasAttribute('title')) {
                    name = element.getAttribute('title');
                } else if (element.hasAttribute('alt')) {
                    name = element.getAttribute('alt');
                } else {
                    name = (element.textContent || '').trim();
                    if (element.tagName.toLowerCase() === 'input' && element.id) {
                        const labels = document.querySelectorAll('label[for="' + element.id + '"]');
                        if (labels.length > 0) {
                            name = labels[0].textContent.trim();
                        }
                    }
                }

                const refIdValue = refIdCounter++;
                element.setAttribute('data-ref-id', 'ref-' + refIdValue);

                const rect = element.getBoundingClientRect();
                const style = window.getComputedStyle(element);
                const isVisible = rect.width > 0 && rect.height > 0 &&
                    style.visibility !== 'hidden' && style.display !== 'none';

                const isDisabled = element.disabled === true || element.hasAttribute('disabled');
                const isReadOnly = element.readOnly === true || element.hasAttribute('readonly');

                if (!isDisabled && !isReadOnly && isVisible && role !== 'unknown') {
                    snapshotResult.push({
                        role: role,
                        name: name || '',
                        ref_id: refIdValue
                    });
                }
            } catch (elementError) {
                errorCount++;
            }
        });
    } catch (walkError) {
        return { error: 'snapshot walk failed: ' + walkError.message, errorCount: errorCount, snapshot: snapshotResult };
    }

    return { snapshot: snapshotResult, errorCount: errorCount };
}`

// viewportScript reports the current viewport size for scroll decisions.
const viewportScript = `() => ({width: window.innerWidth, height: window.innerHeight})`

// scrollTopScript and scrollBottomScript jump to the page extremes. Exact
// offsets are deliberately not computed; extreme scrolling is more robust
// against dynamic layouts.
const (
	scrollTopScript    = `() => window.scrollTo({top: 0, behavior: 'auto'})`
	scrollBottomScript = `() => window.scrollTo({top: document.body.scrollHeight, behavior: 'auto'})`
	centerElementJS    = `el => el.scrollIntoView({block: 'center', inline: 'center'})`
)
